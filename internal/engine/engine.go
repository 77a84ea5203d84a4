// Package engine exposes the two validation passes: a tolerant pass at the
// ingest edge and a strict pass before curation.
package engine

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/normalize"
	"github.com/tripline/eventgate/internal/resolve"
	"github.com/tripline/eventgate/internal/route"
	"github.com/tripline/eventgate/internal/schema"
	"github.com/tripline/eventgate/internal/validate"
)

// ErrNotInitialized is a setup failure: the engine has no registry to validate against.
var ErrNotInitialized = errors.New("engine: schema registry not initialized")

// idNamespace seeds deterministic identifiers for the strict pass.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://tripline.dev/eventgate/events"))

// IDFunc assigns an identifier to an event that arrived without one.
type IDFunc func(raw v1.RawEvent, mode v1.Mode) string

// Engine is safe for concurrent use. Each call is an independent, synchronous
// computation over the read-only registry.
type Engine struct {
	registry  *schema.Registry
	resolver  *resolve.Resolver
	validator *validate.Validator
	now       func() time.Time
	newID     IDFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the processing clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDFunc replaces identifier generation.
func WithIDFunc(fn IDFunc) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithValidator replaces the validator, for custom clock-skew limits.
func WithValidator(v *validate.Validator) Option {
	return func(e *Engine) { e.validator = v }
}

// New builds an Engine over reg.
func New(reg *schema.Registry, opts ...Option) (*Engine, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, ErrNotInitialized
	}
	e := &Engine{
		registry:  reg,
		resolver:  resolve.New(reg),
		validator: validate.New(),
		now:       time.Now,
		newID:     DefaultID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Registry returns the registry the engine validates against.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// IngestNormalize runs the tolerant pass: unknown types and missing
// timestamps produce warnings, format problems are recorded but do not reject.
func (e *Engine) IngestNormalize(raw v1.RawEvent) *v1.Envelope {
	return e.process(raw, "", v1.ModeTolerant)
}

// ValidateNormalize runs the strict pass. declaredType, when non-empty,
// overrides the payload's own type field. Given the same raw payload the
// result is identical apart from the processing-instant metadata.
func (e *Engine) ValidateNormalize(raw v1.RawEvent, declaredType string) *v1.Envelope {
	return e.process(raw, declaredType, v1.ModeStrict)
}

func (e *Engine) process(raw v1.RawEvent, declared string, mode v1.Mode) *v1.Envelope {
	now := e.now().UTC()
	payload := raw.Clone()

	typ := e.resolver.ResolveType(payload, declared)
	ts := resolve.ResolveTimestamp(payload, typ.Descriptor, mode, now)
	if ts.Resolved() && ts.Source != v1.FieldTimestamp {
		payload[v1.FieldTimestamp] = ts.Value
	}

	norm := normalize.Normalize(payload, typ.Descriptor)
	report := e.validator.Validate(validate.Input{
		Type:       typ,
		Timestamp:  ts,
		Normalized: norm,
	}, mode, now)

	var id string
	if existing, ok := payload.String(v1.FieldEventID); !ok || existing == "" {
		id = e.newID(raw, mode)
	}

	return route.Route(route.Input{
		Mode:         mode,
		Type:         typ,
		Timestamp:    ts,
		Normalized:   norm,
		Report:       report,
		EventID:      id,
		PayloadBytes: payloadSize(raw),
		Now:          now,
	})
}

// DefaultID returns a random UUID for the tolerant pass and a UUID derived
// from the payload content for the strict pass, so re-validating the same
// record yields the same identifier.
func DefaultID(raw v1.RawEvent, mode v1.Mode) string {
	if mode == v1.ModeTolerant {
		return uuid.NewString()
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return uuid.NewString()
	}
	return uuid.NewSHA1(idNamespace, b).String()
}

func payloadSize(raw v1.RawEvent) int {
	if raw == nil {
		return 0
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return 0
	}
	return len(b)
}
