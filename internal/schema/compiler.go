package schema

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	v1 "github.com/tripline/eventgate/internal/api/v1"
)

// Compile validates a merged catalog and builds the read-only registry.
// Any structural problem in the catalog is a setup error.
func Compile(spec *CatalogSpec) (*Registry, error) {
	if spec == nil {
		return nil, ErrNotInitialized
	}

	enums, err := compileEnums(spec.Enums)
	if err != nil {
		return nil, err
	}

	reg := &Registry{descriptors: make(map[string]*Descriptor)}

	for i := range spec.Types {
		ts := &spec.Types[i]
		d, err := compileType(ts, enums)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", ts.Type, err)
		}
		if err := reg.add(d); err != nil {
			return nil, err
		}
	}

	for _, as := range spec.Aliases {
		d, err := compileAlias(as, reg)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", as.Name, err)
		}
		if err := reg.add(d); err != nil {
			return nil, err
		}
	}

	for i, is := range spec.Inference {
		rule, err := compileInference(is, reg)
		if err != nil {
			return nil, fmt.Errorf("inference[%d]: %w", i, err)
		}
		reg.inference = append(reg.inference, rule)
	}

	return reg, nil
}

func compileEnums(specs map[string]EnumSpec) (map[string]*EnumSet, error) {
	out := make(map[string]*EnumSet, len(specs))
	for name, es := range specs {
		if len(es.Values) == 0 {
			return nil, fmt.Errorf("enum %q: at least one value is required", name)
		}
		set := &EnumSet{
			Name:   name,
			Values: append([]string(nil), es.Values...),
			lookup: make(map[string]string, len(es.Values)+len(es.Synonyms)),
		}
		for _, v := range es.Values {
			key := foldEnum(v)
			if prev, dup := set.lookup[key]; dup {
				return nil, fmt.Errorf("enum %q: values %q and %q collide", name, prev, v)
			}
			set.lookup[key] = v
		}
		for syn, canonical := range es.Synonyms {
			c, ok := set.lookup[foldEnum(canonical)]
			if !ok {
				return nil, fmt.Errorf("enum %q: synonym %q targets unknown value %q", name, syn, canonical)
			}
			set.lookup[foldEnum(syn)] = c
		}
		out[name] = set
	}
	return out, nil
}

func compileType(ts *TypeSpec, enums map[string]*EnumSet) (*Descriptor, error) {
	if strings.TrimSpace(ts.Type) == "" {
		return nil, fmt.Errorf("type identifier is required")
	}
	if len(ts.Fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}

	d := &Descriptor{
		Type:            ts.Type,
		Description:     ts.Description,
		TimestampFields: append([]string(nil), ts.Timestamps...),
	}

	for _, fs := range ts.Fields {
		if v1.IsSystemField(fs.Name) {
			return nil, fmt.Errorf("field %q is reserved", fs.Name)
		}
		f := &Field{Name: fs.Name, Kind: fs.kind, Required: fs.Required}
		if f.Kind == KindEnum {
			set, ok := enums[fs.Enum]
			if !ok {
				return nil, fmt.Errorf("field %q: unknown enum %q", fs.Name, fs.Enum)
			}
			f.Enum = set
		} else if fs.Enum != "" {
			return nil, fmt.Errorf("field %q: enum set on non-enum type %q", fs.Name, fs.Type)
		}
		d.Fields = append(d.Fields, f)
	}
	d.buildIndex()
	if len(d.index) != len(d.Fields) {
		return nil, fmt.Errorf("duplicate field names")
	}

	for _, name := range d.TimestampFields {
		if name == v1.FieldTimestamp {
			continue
		}
		f, ok := d.index[name]
		if !ok {
			return nil, fmt.Errorf("timestamp alternate %q is not a declared field", name)
		}
		if f.Kind != KindTimestamp && f.Kind != KindDate {
			return nil, fmt.Errorf("timestamp alternate %q has kind %s", name, f.Kind)
		}
	}

	for _, rs := range ts.Rules {
		r, err := compileRule(rs, d)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rs.Name, err)
		}
		d.Rules = append(d.Rules, r)
	}

	return d, nil
}

func compileRule(rs RuleSpec, d *Descriptor) (*Rule, error) {
	if rs.Reason == "" {
		return nil, fmt.Errorf("reason is required")
	}
	fields := rs.Fields
	if rs.Field != "" {
		fields = append([]string{rs.Field}, fields...)
	}

	r := &Rule{
		Name:    rs.Name,
		Kind:    RuleKind(rs.Kind),
		Fields:  fields,
		Reason:  v1.Reason(rs.Reason),
		Message: rs.Message,
		Fatal:   rs.Fatal,
	}
	if r.Name == "" {
		r.Name = rs.Reason
	}

	want := 1
	if r.Kind == RuleOrder {
		want = 2
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%s rule needs %d field(s), got %d", r.Kind, want, len(fields))
	}
	for _, name := range fields {
		if !d.Declares(name) {
			return nil, fmt.Errorf("field %q is not declared", name)
		}
	}

	switch r.Kind {
	case RuleOrder, RulePositive:
	case RuleMin, RuleMax:
		t, err := decimal.NewFromString(rs.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", rs.Value, err)
		}
		r.threshold = t
	case RuleContains:
		if rs.Substring == "" {
			return nil, fmt.Errorf("substring is required")
		}
		r.substring = rs.Substring
	case RuleOneOf:
		if len(rs.Values) == 0 {
			return nil, fmt.Errorf("values are required")
		}
		r.allowed = make(map[string]struct{}, len(rs.Values))
		for _, v := range rs.Values {
			r.allowed[strings.ToUpper(v)] = struct{}{}
		}
	default:
		return nil, fmt.Errorf("unsupported rule kind %q", rs.Kind)
	}
	return r, nil
}

func compileAlias(as AliasSpec, reg *Registry) (*Descriptor, error) {
	if as.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	target, ok := reg.descriptors[as.Target]
	if !ok {
		return nil, fmt.Errorf("unknown target %q", as.Target)
	}
	if target.AliasOf != "" {
		return nil, fmt.Errorf("target %q is itself an alias", as.Target)
	}

	required := make(map[string]struct{}, len(as.Required))
	for _, name := range as.Required {
		f, ok := target.index[name]
		if !ok {
			return nil, fmt.Errorf("required field %q is not declared by %q", name, as.Target)
		}
		if !f.Required {
			return nil, fmt.Errorf("field %q is optional in %q; aliases may only loosen", name, as.Target)
		}
		required[name] = struct{}{}
	}

	d := &Descriptor{
		Type:            as.Name,
		Description:     target.Description,
		AliasOf:         target.Type,
		TimestampFields: target.TimestampFields,
		Rules:           target.Rules,
	}
	for _, f := range target.Fields {
		copied := *f
		if f.Required {
			_, copied.Required = required[f.Name]
		}
		d.Fields = append(d.Fields, &copied)
	}
	d.buildIndex()
	return d, nil
}

func compileInference(is InferenceSpec, reg *Registry) (InferenceRule, error) {
	if _, ok := reg.descriptors[is.Type]; !ok {
		return InferenceRule{}, fmt.Errorf("unknown type %q", is.Type)
	}
	if len(is.Present) == 0 {
		return InferenceRule{}, fmt.Errorf("type %q: at least one present field is required", is.Type)
	}
	return InferenceRule{
		Type:    is.Type,
		Present: append([]string(nil), is.Present...),
		Absent:  append([]string(nil), is.Absent...),
	}, nil
}
