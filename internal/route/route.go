// Package route turns a validated event into its output envelope. It decides
// the outcome and destination and assembles the canonical record; it does no I/O.
package route

import (
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/partition"
	"github.com/tripline/eventgate/internal/core/values"
	"github.com/tripline/eventgate/internal/normalize"
	"github.com/tripline/eventgate/internal/resolve"
)

const (
	// Version is recorded in every metadata block.
	Version = "1.0"

	SourceIngest   = "eventgate-ingest"
	SourceValidate = "eventgate-validate"
)

// Input gathers the results of one validation pass.
type Input struct {
	Mode       v1.Mode
	Type       resolve.TypeResult
	Timestamp  resolve.TimestampResult
	Normalized *normalize.Result
	Report     *v1.Report

	// EventID is the identifier to assign when the payload carries none.
	EventID string

	// PayloadBytes is the size of the raw payload as received.
	PayloadBytes int

	// Now is the processing instant of this pass.
	Now time.Time
}

// Route decides the outcome and builds the envelope.
// accepted if and only if the report has zero errors, whatever the warning count.
func Route(in Input) *v1.Envelope {
	env := &v1.Envelope{
		Outcome:     v1.OutcomeAccepted,
		Destination: v1.DestinationCurated,
		Report:      in.Report,
	}
	if !in.Report.Valid() {
		env.Outcome = v1.OutcomeRejected
		env.Destination = v1.DestinationInvalid
	}
	env.Event = buildEvent(in)
	return env
}

func buildEvent(in Input) *v1.CanonicalEvent {
	payload := in.Normalized.Payload

	evt := &v1.CanonicalEvent{
		ID:     in.EventID,
		Type:   in.Type.Type,
		Fields: make(map[string]interface{}, len(payload)),
	}
	if id, ok := payload.String(v1.FieldEventID); ok && id != "" {
		evt.ID = id
	}
	if evt.Type == "" {
		evt.Type = resolve.UnknownType
	}
	if ts, ok := payload.String(v1.FieldTimestamp); ok {
		evt.Timestamp = ts
	}
	for k, v := range payload {
		if v1.IsSystemField(k) {
			continue
		}
		evt.Fields[k] = v
	}

	evt.Metadata = buildMetadata(in, evt)
	return evt
}

func buildMetadata(in Input, evt *v1.CanonicalEvent) v1.Metadata {
	payload := in.Normalized.Payload
	desc := in.Type.Descriptor

	md := v1.Metadata{
		Source:               SourceIngest,
		Version:              Version,
		Mode:                 in.Mode,
		ResolvedType:         evt.Type,
		TypeInferred:         in.Type.Inferred,
		TimestampSource:      in.Timestamp.Source,
		PayloadBytes:         in.PayloadBytes,
		Completeness:         1,
		HasAllRequiredFields: true,
		HasAllOptionalFields: true,
	}
	if in.Mode == v1.ModeStrict {
		md.Source = SourceValidate
	}
	if desc != nil {
		md.AliasOf = desc.AliasOf
		md.Completeness, md.HasAllOptionalFields = completeness(payload, desc.Optional())
		for _, name := range desc.Required() {
			if !payload.Has(name) {
				md.HasAllRequiredFields = false
				break
			}
		}
	}
	if id, ok := payload.String(v1.FieldRequestID); ok {
		md.RequestID = id
	}

	now := in.Now.UTC()
	eventTime, hasEventTime := values.Instant(evt.Timestamp)

	if in.Mode == v1.ModeTolerant {
		md.ReceivedAt = values.FormatTimestamp(now, true)
		if hasEventTime {
			md.IngestionLatencyMs = now.Sub(eventTime).Milliseconds()
		}
	} else {
		md.ValidatedAt = values.FormatTimestamp(now, true)
		md.ReceivedAt = receivedAt(payload)
		if received, ok := values.Instant(md.ReceivedAt); ok {
			md.IngestionLatencyMs = now.Sub(received).Milliseconds()
		}
	}

	// Without a usable event time the record is filed under the processing date.
	if hasEventTime {
		md.Partition = partition.Key(evt.Type, eventTime)
	} else {
		md.Partition = partition.Key(evt.Type, now)
	}
	return md
}

// completeness is present-optional / total-optional, 1 when nothing is optional.
func completeness(payload v1.RawEvent, optional []string) (float64, bool) {
	if len(optional) == 0 {
		return 1, true
	}
	present := 0
	for _, name := range optional {
		if payload.Has(name) {
			present++
		}
	}
	return float64(present) / float64(len(optional)), present == len(optional)
}

// receivedAt recovers the ingest instant from a stored raw record, which
// carries it either at the top level or inside the ingest metadata block.
func receivedAt(payload v1.RawEvent) string {
	if s, ok := payload.String(v1.FieldReceivedAt); ok {
		return s
	}
	if md, ok := payload[v1.FieldMetadata].(map[string]interface{}); ok {
		if s, ok := md["receivedAt"].(string); ok {
			return s
		}
	}
	return ""
}
