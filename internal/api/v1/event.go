package v1

import "encoding/json"

// Reserved field names shared by every event family.
const (
	FieldType       = "type"
	FieldTimestamp  = "ts"
	FieldEventID    = "eventId"
	FieldReceivedAt = "receivedAt"
	FieldRequestID  = "requestId"
	FieldMetadata   = "metadata"
	FieldValidation = "validation"
)

var systemFields = map[string]struct{}{
	FieldType:       {},
	FieldTimestamp:  {},
	FieldEventID:    {},
	FieldReceivedAt: {},
	FieldRequestID:  {},
	FieldMetadata:   {},
	FieldValidation: {},
}

// IsSystemField reports whether name is an envelope field owned by the pipeline
// rather than by an event family.
func IsSystemField(name string) bool {
	_, ok := systemFields[name]
	return ok
}

// RawEvent is a decoded JSON object as it arrives from a producer.
// Its shape is untrusted: any key may be missing or hold any JSON value.
type RawEvent map[string]interface{}

// String returns the value of key when it holds a string.
func (r RawEvent) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether key is present with a non-null value.
func (r RawEvent) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Clone returns a deep copy so that a validation pass never mutates the caller's payload.
func (r RawEvent) Clone() RawEvent {
	if r == nil {
		return RawEvent{}
	}
	out := make(RawEvent, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, inner := range val {
			m[k] = cloneValue(inner)
		}
		return m
	case RawEvent:
		return val.Clone()
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, inner := range val {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// Mode selects the trust level of a validation pass.
type Mode string

const (
	// ModeTolerant is used at the ingest edge: best-effort inference, acceptance with warnings.
	ModeTolerant Mode = "tolerant"
	// ModeStrict is used downstream: full descriptor enforcement before curation.
	ModeStrict Mode = "strict"
)

// Outcome is the routing decision for one event.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

// Destination is the partition class an event is written to.
type Destination string

const (
	DestinationRaw     Destination = "raw"
	DestinationCurated Destination = "curated"
	DestinationInvalid Destination = "invalid"
)

// Metadata is the audit block attached to every canonical event.
type Metadata struct {
	Source               string  `json:"source"`
	Version              string  `json:"version"`
	Mode                 Mode    `json:"mode"`
	ResolvedType         string  `json:"resolvedType"`
	AliasOf              string  `json:"aliasOf,omitempty"`
	TypeInferred         bool    `json:"typeInferred"`
	TimestampSource      string  `json:"timestampSource"`
	RequestID            string  `json:"requestId,omitempty"`
	ReceivedAt           string  `json:"receivedAt,omitempty"`
	ValidatedAt          string  `json:"validatedAt,omitempty"`
	IngestionLatencyMs   int64   `json:"ingestionLatencyMs"`
	PayloadBytes         int     `json:"payloadBytes"`
	Completeness         float64 `json:"completeness"`
	HasAllRequiredFields bool    `json:"hasAllRequiredFields"`
	HasAllOptionalFields bool    `json:"hasAllOptionalFields"`
	Partition            string  `json:"partition"`
}

// CanonicalEvent is the normalized, routable representation of an event.
// Every CanonicalEvent carries a non-empty Type and an ISO-8601 UTC Timestamp.
type CanonicalEvent struct {
	ID        string
	Type      string
	Timestamp string

	// Fields holds the family-specific payload after normalization.
	// System fields are never stored here.
	Fields map[string]interface{}

	Metadata Metadata
}

// MarshalJSON flattens the payload fields next to the envelope fields, which is
// the record shape stored by the object store and read back by the strict pass.
func (e *CanonicalEvent) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Fields)+4)
	for k, v := range e.Fields {
		out[k] = v
	}
	out[FieldEventID] = e.ID
	out[FieldType] = e.Type
	out[FieldTimestamp] = e.Timestamp
	out[FieldMetadata] = e.Metadata
	return json.Marshal(out)
}

// Raw returns the flattened record as a RawEvent, the shape handed to the strict pass.
func (e *CanonicalEvent) Raw() (RawEvent, error) {
	b, err := e.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var raw RawEvent
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Envelope is the complete output of one validation pass.
type Envelope struct {
	Outcome     Outcome         `json:"outcome"`
	Destination Destination     `json:"destination"`
	Event       *CanonicalEvent `json:"event"`
	Report      *Report         `json:"report"`
}

// Accepted reports whether the event was routed as accepted.
func (e *Envelope) Accepted() bool {
	return e.Outcome == OutcomeAccepted
}
