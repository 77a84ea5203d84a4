package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/storage"
)

// LookupEvent implements storage.EventReader.
func (a *Adapter) LookupEvent(ctx context.Context, eventID string) (*storage.EventStatus, error) {
	status, err := scanStatusRow(a.db.QueryRowContext(ctx, queryLookupEvent, eventID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up event %s: %w", eventID, err)
	}
	return status, nil
}

// ListPartition implements storage.EventReader.
func (a *Adapter) ListPartition(ctx context.Context, class v1.Destination, partitionKey string, limit int) ([]*storage.EventStatus, error) {
	var query string
	switch class {
	case v1.DestinationRaw:
		query = queryListRawPartition
	case v1.DestinationCurated:
		query = queryListCuratedPartition
	case v1.DestinationInvalid:
		query = queryListInvalidPartition
	default:
		return nil, fmt.Errorf("unknown partition class %q", class)
	}

	rows, err := a.db.QueryContext(ctx, query, partitionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s partition %s: %w", class, partitionKey, err)
	}
	defer rows.Close()

	var out []*storage.EventStatus
	for rows.Next() {
		status, err := scanStatusRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s partition row: %w", class, err)
		}
		out = append(out, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s partition: %w", class, err)
	}
	return out, nil
}

func scanStatusRow(row scanner) (*storage.EventStatus, error) {
	var status storage.EventStatus
	var destination string
	var recordJSON, errsJSON, wrnJSON []byte

	if err := row.Scan(
		&status.RawSeq,
		&status.EventID,
		&status.Type,
		&status.Partition,
		&destination,
		&status.RecordedAt,
		&recordJSON,
		&errsJSON,
		&wrnJSON,
	); err != nil {
		return nil, err
	}
	status.Destination = v1.Destination(destination)

	if err := json.Unmarshal(recordJSON, &status.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if err := json.Unmarshal(errsJSON, &status.Errors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal errors: %w", err)
	}
	if err := json.Unmarshal(wrnJSON, &status.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}
	return &status, nil
}
