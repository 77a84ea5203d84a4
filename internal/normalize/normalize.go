// Package normalize coerces a raw payload into canonical field representations.
// It never fails: values it cannot coerce are left untouched and reported.
package normalize

import (
	"strings"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/values"
	"github.com/tripline/eventgate/internal/schema"
	"golang.org/x/text/currency"
)

// Unresolved describes a field the normalizer could not coerce.
type Unresolved struct {
	Field  string
	Kind   schema.Kind
	Reason v1.Reason
	Value  interface{}
}

// Result is a normalized copy of the payload plus what could not be normalized.
type Result struct {
	Payload    v1.RawEvent
	Unresolved []Unresolved
}

// IsUnresolved reports whether field was flagged.
func (r *Result) IsUnresolved(field string) bool {
	for _, u := range r.Unresolved {
		if u.Field == field {
			return true
		}
	}
	return false
}

// Normalize returns a normalized deep copy of payload. The canonical ts field
// is always treated as a timestamp; declared fields are coerced to their kind
// in declared order. desc may be nil for unknown types.
func Normalize(payload v1.RawEvent, desc *schema.Descriptor) *Result {
	res := &Result{Payload: payload.Clone()}

	if v, ok := res.Payload[v1.FieldTimestamp]; ok && v != nil {
		res.apply(v1.FieldTimestamp, schema.KindTimestamp, nil, v)
	}

	if desc == nil {
		return res
	}
	for _, f := range desc.Fields {
		v, ok := res.Payload[f.Name]
		if !ok || v == nil {
			continue
		}
		res.apply(f.Name, f.Kind, f.Enum, v)
	}
	return res
}

func (r *Result) apply(field string, kind schema.Kind, enum *schema.EnumSet, v interface{}) {
	out, reason, ok := Coerce(kind, enum, v)
	if !ok {
		r.Unresolved = append(r.Unresolved, Unresolved{Field: field, Kind: kind, Reason: reason, Value: v})
		return
	}
	r.Payload[field] = out
}

// Coerce converts v to the canonical representation of kind. On failure it
// returns v unchanged together with the reason code the validator should use.
func Coerce(kind schema.Kind, enum *schema.EnumSet, v interface{}) (interface{}, v1.Reason, bool) {
	switch kind {
	case schema.KindString:
		return coerceString(v)
	case schema.KindNumber:
		if d, ok := values.Decimal(v); ok {
			if f, ok := values.Float(d); ok {
				return f, "", true
			}
		}
	case schema.KindInteger:
		if d, ok := values.Decimal(v); ok {
			if n, ok := values.Int64(d); ok {
				return n, "", true
			}
		}
	case schema.KindBoolean:
		if b, ok := coerceBool(v); ok {
			return b, "", true
		}
	case schema.KindTimestamp:
		if s, ok := values.CanonicalTimestamp(v); ok {
			return s, "", true
		}
	case schema.KindDate:
		if s, ok := values.CanonicalDate(v); ok {
			return s, "", true
		}
	case schema.KindEnum:
		s, ok := v.(string)
		if !ok {
			break
		}
		if enum == nil {
			return v, v1.ReasonInvalidEnumValue, false
		}
		if canonical, ok := enum.Canonical(s); ok {
			return canonical, "", true
		}
		return v, v1.ReasonInvalidEnumValue, false
	case schema.KindCurrency:
		if code, ok := CurrencyCode(v); ok {
			return code, "", true
		}
	case schema.KindCode:
		if code, ok := upperCode(v); ok {
			return code, "", true
		}
	case schema.KindList:
		switch val := v.(type) {
		case []interface{}:
			return val, "", true
		case []string:
			out := make([]interface{}, len(val))
			for i, s := range val {
				out[i] = s
			}
			return out, "", true
		case string:
			if strings.TrimSpace(val) != "" {
				return []interface{}{val}, "", true
			}
		}
	}
	return v, v1.ReasonInvalidFieldFormat, false
}

// Conforms reports whether v already has the canonical representation of kind.
// Coercion is idempotent, so a conforming value coerces to itself.
func Conforms(kind schema.Kind, enum *schema.EnumSet, v interface{}) bool {
	switch kind {
	case schema.KindString:
		_, ok := v.(string)
		return ok
	case schema.KindNumber:
		return values.IsNumber(v)
	case schema.KindInteger:
		if !values.IsNumber(v) {
			return false
		}
		d, _ := values.Decimal(v)
		_, ok := values.Int64(d)
		return ok
	case schema.KindBoolean:
		_, ok := v.(bool)
		return ok
	case schema.KindTimestamp:
		s, ok := values.CanonicalTimestamp(v)
		return ok && s == v
	case schema.KindDate:
		s, ok := values.CanonicalDate(v)
		return ok && s == v
	case schema.KindEnum:
		s, ok := v.(string)
		if !ok || enum == nil {
			return false
		}
		c, ok := enum.Canonical(s)
		return ok && c == s
	case schema.KindCurrency:
		s, ok := CurrencyCode(v)
		return ok && s == v
	case schema.KindCode:
		s, ok := upperCode(v)
		return ok && s == v
	case schema.KindList:
		_, ok := v.([]interface{})
		return ok
	}
	return false
}

func upperCode(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s != ""
}

// CurrencyCode returns the upper-case ISO 4217 code for v when it is recognized.
func CurrencyCode(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", false
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

func coerceString(v interface{}) (interface{}, v1.Reason, bool) {
	switch val := v.(type) {
	case string:
		return val, "", true
	case float64, int, int64, int32:
		// Identifiers are sometimes sent as bare JSON numbers.
		if d, ok := values.Decimal(val); ok && d.IsInteger() {
			return d.String(), "", true
		}
	}
	return v, v1.ReasonInvalidFieldFormat, false
}

func coerceBool(v interface{}) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}
