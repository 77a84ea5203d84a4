package schema

import (
	"fmt"
	"sort"
)

// InferenceRule maps a structural signature to an event type.
type InferenceRule struct {
	Type    string
	Present []string
	Absent  []string
}

// Matches reports whether payload carries every Present field and no Absent field.
func (r InferenceRule) Matches(payload map[string]interface{}) bool {
	for _, f := range r.Present {
		if v, ok := payload[f]; !ok || v == nil {
			return false
		}
	}
	for _, f := range r.Absent {
		if _, ok := payload[f]; ok {
			return false
		}
	}
	return true
}

// Registry maps event-type identifiers to descriptors.
// It is built once at startup and never mutated, so concurrent reads need no locking.
type Registry struct {
	descriptors map[string]*Descriptor
	order       []string
	inference   []InferenceRule
}

func (r *Registry) add(d *Descriptor) error {
	if _, exists := r.descriptors[d.Type]; exists {
		return fmt.Errorf("event type %q registered twice", d.Type)
	}
	r.descriptors[d.Type] = d
	r.order = append(r.order, d.Type)
	return nil
}

// Lookup returns the descriptor for eventType. An unknown type is not an
// error here; callers decide how strictly to treat it.
func (r *Registry) Lookup(eventType string) (*Descriptor, bool) {
	d, ok := r.descriptors[eventType]
	return d, ok
}

// Get is Lookup with ErrNotFound for callers that need an error value.
func (r *Registry) Get(eventType string) (*Descriptor, error) {
	d, ok := r.descriptors[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, eventType)
	}
	return d, nil
}

// Types returns all registered identifiers, aliases included, sorted.
func (r *Registry) Types() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// InferenceRules returns the structural rules in evaluation order.
func (r *Registry) InferenceRules() []InferenceRule {
	return append([]InferenceRule(nil), r.inference...)
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	return len(r.descriptors)
}
