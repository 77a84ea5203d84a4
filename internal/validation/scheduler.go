package validation

import (
	"context"
	"log/slog"
	"time"
)

const (
	// maxBatchesPerDrain bounds one drain so a flood of raw events cannot starve shutdown.
	maxBatchesPerDrain = 100

	finalDrainTimeout = 30 * time.Second
)

// Scheduler runs the validation job on a periodic interval.
// It is stateless: each tick independently fetches raw events since the last checkpoint.
type Scheduler struct {
	interval time.Duration
	job      *Job
}

// NewScheduler creates a scheduler for job.
func NewScheduler(interval time.Duration, job *Job) *Scheduler {
	return &Scheduler{
		interval: interval,
		job:      job,
	}
}

// Start begins periodic validation.
// Runs until context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting strict validation scheduler",
		"interval", s.interval,
		"batch_size", s.job.opts.BatchSize,
		"workers", s.job.opts.WorkerCount,
	)

	s.drainBacklog(ctx)

	for {
		select {
		case <-ticker.C:
			s.drainBacklog(ctx)
		case <-ctx.Done():
			// Records ingested right before shutdown still get their strict pass.
			drainCtx, cancel := context.WithTimeout(context.Background(), finalDrainTimeout)
			defer cancel()

			validated := s.drainBacklog(drainCtx)
			slog.Info("[Scheduler] Stopped", "final_drain_records", validated)
			return nil
		}
	}
}

// drainBacklog runs the job until a short batch shows the raw backlog is empty,
// and returns how many raw records it validated.
func (s *Scheduler) drainBacklog(ctx context.Context) int {
	total := 0
	for batch := 1; batch <= maxBatchesPerDrain; batch++ {
		if ctx.Err() != nil {
			return total
		}

		n, err := s.job.RunOnce(ctx)
		if err != nil {
			// The checkpoint did not move; the next tick retries from the same cursor.
			slog.Error("[Scheduler] Strict pass failed", "batch", batch, "validated", total, "error", err)
			return total
		}
		total += n
		if n < s.job.opts.BatchSize {
			if batch > 1 {
				slog.Info("[Scheduler] Raw backlog cleared", "batches", batch, "validated", total)
			}
			return total
		}
	}

	slog.Warn("[Scheduler] Raw backlog exceeds one drain, continuing next tick",
		"batches", maxBatchesPerDrain, "validated", total)
	return total
}
