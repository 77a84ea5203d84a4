// Package resolve determines the event type and canonical timestamp of a raw
// payload before normalization.
package resolve

import (
	"strings"
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/values"
	"github.com/tripline/eventgate/internal/schema"
)

const (
	// UnknownType is recorded on canonical events whose family could not be determined.
	UnknownType = "unknown"

	// SourceNow marks a timestamp substituted with the processing instant.
	SourceNow = "now"
)

// TypeResult is the outcome of type resolution.
type TypeResult struct {
	// Type is the identifier the event was resolved to; empty when neither
	// declared nor inferable.
	Type string

	// Descriptor is nil when Type is not registered.
	Descriptor *schema.Descriptor

	// Inferred is true when Type came from structural inference.
	Inferred bool
}

// Known reports whether the resolved type has a descriptor.
func (t TypeResult) Known() bool {
	return t.Descriptor != nil
}

// TimestampResult is the outcome of timestamp resolution.
type TimestampResult struct {
	// Value is canonical when the source value was parseable, otherwise it is
	// the source value unchanged so the validator can flag it.
	Value string

	// Source names the field Value came from: ts, an alternate, or SourceNow.
	// Empty when no timestamp could be derived.
	Source string
}

// Resolved reports whether a timestamp was derived.
func (t TimestampResult) Resolved() bool {
	return t.Source != ""
}

// Substituted reports whether the processing instant was used.
func (t TimestampResult) Substituted() bool {
	return t.Source == SourceNow
}

// Resolver resolves types and timestamps against a registry.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	registry *schema.Registry
}

// New returns a Resolver backed by reg.
func New(reg *schema.Registry) *Resolver {
	if reg == nil {
		panic("resolve: registry must not be nil")
	}
	return &Resolver{registry: reg}
}

// InferType evaluates the registry's inference rules in order; the first match wins.
func (r *Resolver) InferType(payload v1.RawEvent) (string, bool) {
	for _, rule := range r.registry.InferenceRules() {
		if rule.Matches(payload) {
			return rule.Type, true
		}
	}
	return "", false
}

// ResolveType picks the event type from, in order: the caller-declared type,
// the payload's type field, then structural inference.
func (r *Resolver) ResolveType(payload v1.RawEvent, declared string) TypeResult {
	var res TypeResult

	if t := strings.TrimSpace(declared); t != "" {
		res.Type = t
	} else if t, ok := payload.String(v1.FieldType); ok && strings.TrimSpace(t) != "" {
		res.Type = strings.TrimSpace(t)
	} else if t, ok := r.InferType(payload); ok {
		res.Type = t
		res.Inferred = true
	}

	if res.Type != "" {
		res.Descriptor, _ = r.registry.Lookup(res.Type)
	}
	return res
}

// ResolveTimestamp derives the canonical timestamp. An explicit ts wins;
// otherwise the descriptor's alternates are scanned in declared order and the
// first non-empty value is adopted. When nothing is found, tolerant mode
// substitutes now truncated to the second and strict mode leaves the result
// unresolved.
func ResolveTimestamp(payload v1.RawEvent, desc *schema.Descriptor, mode v1.Mode, now time.Time) TimestampResult {
	if v, ok := payload[v1.FieldTimestamp]; ok && v != nil {
		return TimestampResult{Value: asTimestamp(v), Source: v1.FieldTimestamp}
	}

	if desc != nil {
		for _, name := range desc.TimestampFields {
			s, ok := payload.String(name)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			return TimestampResult{Value: asTimestamp(s), Source: name}
		}
	}

	if mode == v1.ModeTolerant {
		return TimestampResult{
			Value:  values.FormatTimestamp(now.Truncate(time.Second), false),
			Source: SourceNow,
		}
	}
	return TimestampResult{}
}

func asTimestamp(v interface{}) string {
	if canonical, ok := values.CanonicalTimestamp(v); ok {
		return canonical
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
