package schema

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/values"
)

// RuleKind selects how a business rule is evaluated.
type RuleKind string

const (
	// RuleOrder: Fields[1] must not precede Fields[0].
	RuleOrder RuleKind = "order"
	// RulePositive: the field must be strictly greater than zero.
	RulePositive RuleKind = "positive"
	// RuleMin: the field must be >= Value.
	RuleMin RuleKind = "min"
	// RuleMax: the field must be <= Value.
	RuleMax RuleKind = "max"
	// RuleContains: the string field must contain Substring.
	RuleContains RuleKind = "contains"
	// RuleOneOf: the field should be one of Values (case-insensitive).
	RuleOneOf RuleKind = "one_of"
)

// Rule is a declared cross-field or business constraint.
// Rules only inspect fields that are present and well-formed; format problems
// are reported by the field checks, not here.
type Rule struct {
	Name    string
	Kind    RuleKind
	Fields  []string
	Reason  v1.Reason
	Message string
	Fatal   bool

	threshold decimal.Decimal
	substring string
	allowed   map[string]struct{}
}

// Violation is a failed rule evaluation.
type Violation struct {
	Field   string
	Reason  v1.Reason
	Message string
	Fatal   bool
}

// Evaluate checks the rule against a normalized payload.
// It returns false when the rule holds or cannot be evaluated.
func (r *Rule) Evaluate(payload map[string]interface{}) (Violation, bool) {
	switch r.Kind {
	case RuleOrder:
		return r.evalOrder(payload)
	case RulePositive, RuleMin, RuleMax:
		return r.evalBound(payload)
	case RuleContains:
		return r.evalContains(payload)
	case RuleOneOf:
		return r.evalOneOf(payload)
	}
	return Violation{}, false
}

func (r *Rule) violation(field, format string, args ...interface{}) Violation {
	msg := r.Message
	if msg == "" {
		msg = fmt.Sprintf(format, args...)
	}
	return Violation{Field: field, Reason: r.Reason, Message: msg, Fatal: r.Fatal}
}

func (r *Rule) evalOrder(payload map[string]interface{}) (Violation, bool) {
	first, ok := values.Instant(payload[r.Fields[0]])
	if !ok {
		return Violation{}, false
	}
	second, ok := values.Instant(payload[r.Fields[1]])
	if !ok {
		return Violation{}, false
	}
	if second.Before(first) {
		return r.violation(v1.GlobalField, "%s precedes %s", r.Fields[1], r.Fields[0]), true
	}
	return Violation{}, false
}

func (r *Rule) evalBound(payload map[string]interface{}) (Violation, bool) {
	field := r.Fields[0]
	raw, present := payload[field]
	if !present || !values.IsNumber(raw) {
		return Violation{}, false
	}
	d, ok := values.Decimal(raw)
	if !ok {
		return Violation{}, false
	}
	switch r.Kind {
	case RulePositive:
		if !d.IsPositive() {
			return r.violation(field, "%s must be greater than zero, got %s", field, d), true
		}
	case RuleMin:
		if d.LessThan(r.threshold) {
			return r.violation(field, "%s must be at least %s, got %s", field, r.threshold, d), true
		}
	case RuleMax:
		if d.GreaterThan(r.threshold) {
			return r.violation(field, "%s exceeds %s, got %s", field, r.threshold, d), true
		}
	}
	return Violation{}, false
}

func (r *Rule) evalContains(payload map[string]interface{}) (Violation, bool) {
	field := r.Fields[0]
	s, ok := payload[field].(string)
	if !ok || s == "" {
		return Violation{}, false
	}
	if !strings.Contains(s, r.substring) {
		return r.violation(field, "%s must contain %q", field, r.substring), true
	}
	return Violation{}, false
}

func (r *Rule) evalOneOf(payload map[string]interface{}) (Violation, bool) {
	field := r.Fields[0]
	s, ok := payload[field].(string)
	if !ok {
		return Violation{}, false
	}
	if _, known := r.allowed[strings.ToUpper(strings.TrimSpace(s))]; !known {
		return r.violation(field, "%s has unrecognized value %q", field, s), true
	}
	return Violation{}, false
}
