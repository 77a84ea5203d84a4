package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogSpec is the on-disk declaration of event families.
// A catalog may be split across several files; they are merged before compilation.
type CatalogSpec struct {
	Enums     map[string]EnumSpec `yaml:"enums,omitempty"`
	Types     []TypeSpec          `yaml:"types,omitempty"`
	Aliases   []AliasSpec         `yaml:"aliases,omitempty"`
	Inference []InferenceSpec     `yaml:"inference,omitempty"`
}

// EnumSpec declares canonical values and synonyms for an enumeration.
type EnumSpec struct {
	Values   []string          `yaml:"values"`
	Synonyms map[string]string `yaml:"synonyms,omitempty"`
}

// TypeSpec declares one event family.
type TypeSpec struct {
	Type        string     `yaml:"type"`
	Description string     `yaml:"description,omitempty"`
	Timestamps  []string   `yaml:"timestamps,omitempty"`
	Fields      FieldSpecs `yaml:"fields"`
	Rules       []RuleSpec `yaml:"rules,omitempty"`
}

// AliasSpec derives a legacy type from an existing family with a looser required set.
type AliasSpec struct {
	Name     string   `yaml:"name"`
	Target   string   `yaml:"target"`
	Required []string `yaml:"required"`
}

// InferenceSpec is one structural rule: the type applies when every field in
// Present exists and no field in Absent does.
type InferenceSpec struct {
	Type    string   `yaml:"type"`
	Present []string `yaml:"present"`
	Absent  []string `yaml:"absent,omitempty"`
}

// RuleSpec declares a business rule.
type RuleSpec struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Field     string   `yaml:"field,omitempty"`
	Fields    []string `yaml:"fields,omitempty"`
	Reason    string   `yaml:"reason"`
	Message   string   `yaml:"message,omitempty"`
	Fatal     bool     `yaml:"fatal,omitempty"`
	Value     string   `yaml:"value,omitempty"`
	Substring string   `yaml:"substring,omitempty"`
	Values    []string `yaml:"values,omitempty"`
}

// FieldSpecs keeps fields in declaration order, which drives report ordering.
type FieldSpecs []*FieldSpec

// FieldSpec declares one field.
//
// Fields support two declaration styles:
//
//	Shorthand (scalar): reservationId: string!
//	                    status: enum:flightStatus!
//	Long form (mapping): status:
//	                       type: enum!
//	                       enum: flightStatus
//
// Append "!" to the type to mark the field required.
type FieldSpec struct {
	Name     string `yaml:"-"`
	Type     string `yaml:"type"`
	Enum     string `yaml:"enum,omitempty"`
	Required bool   `yaml:"required,omitempty"`

	kind Kind
}

// UnmarshalYAML decodes a mapping of field name to declaration, preserving order.
func (fs *FieldSpecs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("fields must be a mapping, got %s", nodeKind(value))
	}
	out := make(FieldSpecs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		f := &FieldSpec{Name: name}
		if err := f.UnmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		f.Name = name
		out = append(out, f)
	}
	*fs = out
	return nil
}

// UnmarshalYAML accepts both shorthand and long-form declarations.
func (f *FieldSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return f.parseTypeString(value.Value)
	}

	// Decode via alias to avoid infinite recursion.
	type fieldAlias FieldSpec
	var alias fieldAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	name := f.Name
	*f = FieldSpec(alias)
	f.Name = name

	if f.Type == "" {
		return fmt.Errorf("field missing 'type'")
	}
	return f.parseTypeString(f.Type)
}

// parseTypeString parses names like "timestamp!" or "enum:flightStatus!".
func (f *FieldSpec) parseTypeString(s string) error {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "!") {
		f.Required = true
		s = strings.TrimSuffix(s, "!")
	}
	if name, ok := strings.CutPrefix(s, "enum:"); ok {
		f.Enum = name
		s = string(KindEnum)
	}

	k := Kind(s)
	if !k.valid() {
		return fmt.Errorf("unsupported type %q (must be: string, number, integer, boolean, timestamp, date, enum, currency, list)", s)
	}
	f.Type = s
	f.kind = k
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*CatalogSpec, error) {
	var spec CatalogSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &spec, nil
}

// merge folds other into c. Enum names and type names must stay unique.
func (c *CatalogSpec) merge(other *CatalogSpec) error {
	if c.Enums == nil {
		c.Enums = make(map[string]EnumSpec)
	}
	for name, e := range other.Enums {
		if _, exists := c.Enums[name]; exists {
			return fmt.Errorf("enum %q declared twice", name)
		}
		c.Enums[name] = e
	}
	c.Types = append(c.Types, other.Types...)
	c.Aliases = append(c.Aliases, other.Aliases...)
	c.Inference = append(c.Inference, other.Inference...)
	return nil
}
