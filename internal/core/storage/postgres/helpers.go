package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/storage"
	"github.com/tripline/eventgate/internal/core/values"
)

// marshalEventJSON marshals the flattened canonical record and a report entry list.
// A nil or empty entry list is stored as an empty JSON array, never SQL NULL.
func marshalEventJSON(evt *v1.CanonicalEvent, entries []v1.Entry) (recordJSON, entriesJSON []byte, err error) {
	recordJSON, err = json.Marshal(evt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	entriesJSON, err = marshalEntries(entries)
	if err != nil {
		return nil, nil, err
	}
	return recordJSON, entriesJSON, nil
}

func marshalEntries(entries []v1.Entry) ([]byte, error) {
	if entries == nil {
		entries = []v1.Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report entries: %w", err)
	}
	return b, nil
}

// instantOr parses a canonical timestamp, falling back to def when it is empty or malformed.
func instantOr(s string, def time.Time) time.Time {
	if t, ok := values.Instant(s); ok {
		return t
	}
	return def
}

// nullableInstant returns nil (SQL NULL) for unparseable timestamps.
func nullableInstant(s string) interface{} {
	if t, ok := values.Instant(s); ok {
		return t
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRawRow scans a database row into a RawRecord.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRawRow(row scanner) (*storage.RawRecord, error) {
	var rec storage.RawRecord
	var recordJSON []byte

	err := row.Scan(
		&rec.Seq,
		&rec.EventID,
		&rec.Type,
		&rec.Partition,
		&rec.ReceivedAt,
		&recordJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan raw event row: %w", err)
	}

	if err := json.Unmarshal(recordJSON, &rec.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}
