package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/storage"
	"github.com/tripline/eventgate/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize   = 5000
	defaultWorkerCount = 8
)

// StrictValidator runs the strict pass. *engine.Engine implements it.
type StrictValidator interface {
	ValidateNormalize(raw v1.RawEvent, declaredType string) *v1.Envelope
}

// BatchJobParameter controls throughput of a validation run.
type BatchJobParameter struct {
	BatchSize   int
	WorkerCount int
}

// DefaultBatchJobOptions returns safe defaults for scheduled processing.
func DefaultBatchJobOptions() BatchJobParameter {
	return BatchJobParameter{
		BatchSize:   defaultBatchSize,
		WorkerCount: defaultWorkerCount,
	}
}

func (o BatchJobParameter) normalized() BatchJobParameter {
	n := o
	if n.BatchSize <= 0 {
		n.BatchSize = defaultBatchSize
	}
	if n.WorkerCount <= 0 {
		n.WorkerCount = defaultWorkerCount
	}
	return n
}

// Job moves raw records through the strict pass into the curated or invalid
// partition classes. Publisher may be nil.
type Job struct {
	validator StrictValidator
	raw       storage.RawEventStore
	validated storage.ValidatedStore
	publisher storage.Publisher
	opts      BatchJobParameter
}

// NewJob creates a validation job.
func NewJob(
	validator StrictValidator,
	raw storage.RawEventStore,
	validated storage.ValidatedStore,
	publisher storage.Publisher,
	opts BatchJobParameter,
) *Job {
	return &Job{
		validator: validator,
		raw:       raw,
		validated: validated,
		publisher: publisher,
		opts:      opts.normalized(),
	}
}

// RunOnce validates one batch after the checkpoint and returns the number of
// raw records processed. Accepted events are published before the checkpoint
// advances, so a failed run is retried from the same cursor.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()

	cursor, err := j.validated.ReadCheckpoint(ctx)
	if err != nil {
		return 0, fmt.Errorf("read checkpoint: %w", err)
	}

	records, err := j.raw.RetrieveRawAfterCursor(ctx, cursor, j.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("query raw events: %w", err)
	}

	if len(records) == 0 {
		slog.Debug("[ValidationJob] No new raw events to validate", "cursor", cursor)
		return 0, nil
	}

	results, err := j.validateConcurrently(ctx, records)
	if err != nil {
		return 0, err
	}

	var curated []*v1.CanonicalEvent
	for _, res := range results {
		metrics.EventsValidated.WithLabelValues(string(res.Envelope.Destination)).Inc()
		metrics.ObserveReport(v1.ModeStrict, res.Envelope.Report)
		if res.Envelope.Accepted() {
			curated = append(curated, res.Envelope.Event)
		}
	}

	if j.publisher != nil && len(curated) > 0 {
		if err := j.publisher.Publish(ctx, curated); err != nil {
			return 0, fmt.Errorf("publish curated events: %w", err)
		}
		metrics.EventsPublished.Add(float64(len(curated)))
	}

	newCursor := records[len(records)-1].Seq
	if err := j.validated.Flush(ctx, results, newCursor); err != nil {
		return 0, fmt.Errorf("flush validated events: %w", err)
	}

	metrics.ValidationCursor.Set(float64(newCursor))
	metrics.ValidationRunDuration.Observe(float64(time.Since(start).Milliseconds()))

	slog.Info("[ValidationJob] Batch complete",
		"events_processed", len(records),
		"curated", len(curated),
		"invalid", len(records)-len(curated),
		"cursor_advanced", fmt.Sprintf("%d -> %d", cursor, newCursor),
	)

	return len(records), nil
}

// validateConcurrently runs the strict pass over records with a bounded worker
// count. Results keep the input order.
func (j *Job) validateConcurrently(ctx context.Context, records []*storage.RawRecord) ([]*storage.ValidatedEvent, error) {
	results := make([]*storage.ValidatedEvent, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.opts.WorkerCount)

	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = &storage.ValidatedEvent{
				RawSeq:   rec.Seq,
				Envelope: j.validator.ValidateNormalize(rec.Record, ""),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validate batch: %w", err)
	}
	return results, nil
}
