package schema

import "strings"

// Kind is the expected representation of a field value.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindInteger   Kind = "integer"
	KindBoolean   Kind = "boolean"
	KindTimestamp Kind = "timestamp"
	KindDate      Kind = "date"
	KindEnum      Kind = "enum"
	KindCurrency  Kind = "currency"
	KindCode      Kind = "code" // trimmed, upper-case identifier such as an aircraft model
	KindList      Kind = "list"
)

func (k Kind) valid() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean,
		KindTimestamp, KindDate, KindEnum, KindCurrency, KindCode, KindList:
		return true
	}
	return false
}

// Field describes one payload field of an event family.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// Enum is set when Kind is KindEnum.
	Enum *EnumSet
}

// EnumSet is a named set of canonical values with optional synonyms.
type EnumSet struct {
	Name   string
	Values []string

	// lookup maps a folded spelling to its canonical value.
	lookup map[string]string
}

func foldEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Canonical returns the canonical spelling of v, matching case-insensitively
// against values and synonyms.
func (e *EnumSet) Canonical(v string) (string, bool) {
	c, ok := e.lookup[foldEnum(v)]
	return c, ok
}

// Descriptor governs validation of one event family. Immutable once registered.
type Descriptor struct {
	Type        string
	Description string

	// AliasOf names the descriptor a legacy alias was derived from.
	AliasOf string

	Fields []*Field

	// TimestampFields are the alternates scanned, in order, when ts is absent.
	TimestampFields []string

	Rules []*Rule

	index map[string]*Field
}

// Field returns the declared field called name.
func (d *Descriptor) Field(name string) (*Field, bool) {
	f, ok := d.index[name]
	return f, ok
}

// Declares reports whether name is a declared field of this family.
func (d *Descriptor) Declares(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Required returns the required field names in declared order.
func (d *Descriptor) Required() []string {
	var out []string
	for _, f := range d.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Optional returns the optional field names in declared order.
func (d *Descriptor) Optional() []string {
	var out []string
	for _, f := range d.Fields {
		if !f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// CanonicalType is the family this descriptor validates as, following aliases.
func (d *Descriptor) CanonicalType() string {
	if d.AliasOf != "" {
		return d.AliasOf
	}
	return d.Type
}

func (d *Descriptor) buildIndex() {
	d.index = make(map[string]*Field, len(d.Fields))
	for _, f := range d.Fields {
		d.index[f.Name] = f
	}
}
