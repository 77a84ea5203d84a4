package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
)

var (
	// ErrDuplicate is returned when a raw event with the same event id already exists.
	ErrDuplicate = errors.New("event already exists")

	// ErrNotFound is returned when no raw event carries the requested id.
	ErrNotFound = errors.New("event not found")
)

// RawRecord is an event as written by the ingest pass, awaiting strict validation.
type RawRecord struct {
	Seq        int64
	EventID    string
	Type       string
	Partition  string
	ReceivedAt time.Time

	// Record is the flattened canonical event, metadata block included.
	Record v1.RawEvent
}

// ValidatedEvent is the strict-pass outcome for one raw record.
type ValidatedEvent struct {
	RawSeq   int64
	Envelope *v1.Envelope
}

// EventStatus locates one event across the raw, curated and invalid partition classes.
type EventStatus struct {
	RawSeq      int64
	EventID     string
	Type        string
	Partition   string
	Destination v1.Destination

	// RecordedAt is received_at for raw events and validated_at otherwise.
	RecordedAt time.Time

	Record   v1.RawEvent
	Errors   []v1.Entry
	Warnings []v1.Entry
}

// RawEventStore holds the raw partition class.
type RawEventStore interface {
	// SaveRaw persists an ingested event and returns its sequence number.
	// Returns ErrDuplicate when the event id is already stored.
	SaveRaw(ctx context.Context, evt *v1.CanonicalEvent, warnings []v1.Entry) (int64, error)

	// RetrieveRawAfterCursor fetches raw records with seq > cursor in seq order.
	// cursor=0 means "from the beginning".
	RetrieveRawAfterCursor(ctx context.Context, cursor int64, limit int) ([]*RawRecord, error)
}

// ValidatedStore holds the curated and invalid partition classes.
type ValidatedStore interface {
	// Flush writes every result to its destination and advances the checkpoint
	// to cursor in one transaction. Writes are idempotent per event id.
	Flush(ctx context.Context, results []*ValidatedEvent, cursor int64) error

	// ReadCheckpoint returns the last raw seq that was flushed, 0 when none.
	ReadCheckpoint(ctx context.Context) (int64, error)
}

// Publisher fans accepted canonical events out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, events []*v1.CanonicalEvent) error
	Close() error
}

// EventReader serves read-side lookups over all partition classes.
type EventReader interface {
	// LookupEvent returns the furthest stage an event reached.
	// Returns ErrNotFound when the id was never ingested.
	LookupEvent(ctx context.Context, eventID string) (*EventStatus, error)

	// ListPartition returns events of one partition class and key in raw seq order.
	ListPartition(ctx context.Context, class v1.Destination, partitionKey string, limit int) ([]*EventStatus, error)
}
