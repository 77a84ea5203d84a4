package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/storage"
)

// DefaultCheckpoint names the cursor row of the strict validation job.
const DefaultCheckpoint = "strict-validation"

// ValidatedAdapter implements storage.ValidatedStore using PostgreSQL.
// Result writes and the checkpoint write share one transaction, so a crash
// either replays a whole batch or none of it.
type ValidatedAdapter struct {
	db         *sql.DB
	checkpoint string
	now        func() time.Time
}

// NewValidatedAdapter creates a ValidatedAdapter sharing the given connection.
func NewValidatedAdapter(db *sql.DB) *ValidatedAdapter {
	return &ValidatedAdapter{
		db:         db,
		checkpoint: DefaultCheckpoint,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Flush writes curated and invalid events and advances the checkpoint to cursor.
func (a *ValidatedAdapter) Flush(ctx context.Context, results []*storage.ValidatedEvent, cursor int64) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("validated flush: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Lock checkpoint row first and enforce monotonic checkpoint writes.
	// This prevents stale, out-of-order flushes from overwriting newer durable state.
	var durableCursor int64
	err = tx.QueryRowContext(ctx, querySelectCheckpointForUpdate, a.checkpoint).Scan(&durableCursor)
	if err == sql.ErrNoRows {
		_, err = tx.ExecContext(ctx, queryInitCheckpointRow, a.checkpoint, a.now())
		if err != nil {
			return fmt.Errorf("validated flush: init checkpoint row: %w", err)
		}

		err = tx.QueryRowContext(ctx, querySelectCheckpointForUpdate, a.checkpoint).Scan(&durableCursor)
		if err != nil {
			return fmt.Errorf("validated flush: read initialized checkpoint for update: %w", err)
		}
	}
	if err != nil {
		return fmt.Errorf("validated flush: read checkpoint for update: %w", err)
	}

	if cursor <= durableCursor {
		slog.Warn("[ValidatedAdapter] Skipping stale/no-op flush",
			"cursor", cursor,
			"durable_cursor", durableCursor,
			"results", len(results))
		return nil
	}

	curatedStmt, err := tx.PrepareContext(ctx, queryInsertCurated)
	if err != nil {
		return fmt.Errorf("validated flush: prepare curated insert: %w", err)
	}
	defer curatedStmt.Close()

	invalidStmt, err := tx.PrepareContext(ctx, queryInsertInvalid)
	if err != nil {
		return fmt.Errorf("validated flush: prepare invalid insert: %w", err)
	}
	defer invalidStmt.Close()

	var curated, invalid int
	for _, res := range results {
		if err := writeResult(ctx, curatedStmt, invalidStmt, res); err != nil {
			return err
		}
		if res.Envelope.Accepted() {
			curated++
		} else {
			invalid++
		}
	}

	result, err := tx.ExecContext(ctx, queryUpdateCheckpoint, cursor, a.now(), a.checkpoint)
	if err != nil {
		return fmt.Errorf("validated flush: write checkpoint: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("validated flush: check checkpoint write: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("validated flush: checkpoint row missing (name=%s)", a.checkpoint)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("validated flush: commit: %w", err)
	}

	slog.Info("[ValidatedAdapter] Flushed",
		"curated", curated,
		"invalid", invalid,
		"cursor", cursor,
	)
	return nil
}

func writeResult(ctx context.Context, curatedStmt, invalidStmt *sql.Stmt, res *storage.ValidatedEvent) error {
	env := res.Envelope
	evt := env.Event
	validatedAt := instantOr(evt.Metadata.ValidatedAt, time.Now().UTC())

	if env.Destination == v1.DestinationCurated {
		recordJSON, warningsJSON, err := marshalEventJSON(evt, env.Report.Warnings)
		if err != nil {
			return err
		}
		if _, err := curatedStmt.ExecContext(ctx,
			evt.ID,
			res.RawSeq,
			evt.Type,
			evt.Metadata.Partition,
			nullableInstant(evt.Timestamp),
			validatedAt,
			recordJSON,
			warningsJSON,
		); err != nil {
			return fmt.Errorf("validated flush: insert curated %s: %w", evt.ID, err)
		}
		return nil
	}

	recordJSON, errorsJSON, err := marshalEventJSON(evt, env.Report.Errors)
	if err != nil {
		return err
	}
	warningsJSON, err := marshalEntries(env.Report.Warnings)
	if err != nil {
		return err
	}
	if _, err := invalidStmt.ExecContext(ctx,
		evt.ID,
		res.RawSeq,
		evt.Type,
		evt.Metadata.Partition,
		validatedAt,
		recordJSON,
		errorsJSON,
		warningsJSON,
	); err != nil {
		return fmt.Errorf("validated flush: insert invalid %s: %w", evt.ID, err)
	}
	return nil
}

// ReadCheckpoint returns the last flushed raw seq.
// Returns 0 if no checkpoint exists yet (meaning "validate from the beginning").
func (a *ValidatedAdapter) ReadCheckpoint(ctx context.Context) (int64, error) {
	var cursor int64
	err := a.db.QueryRowContext(ctx, queryReadCheckpoint, a.checkpoint).Scan(&cursor)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read validation checkpoint: %w", err)
	}
	return cursor, nil
}
