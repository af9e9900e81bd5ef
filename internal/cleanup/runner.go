package cleanup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curiolist/curio/internal/storage"
)

// Runner drains the task queue in FIFO batches, retrying blob deletion for
// each task. Blob failures are recoverable and retain the task; a queue
// failure while finalizing a task aborts the whole run. Two concurrent runs
// may claim the same task; blob deletes are idempotent so the result is
// duplicated effort, not corruption.
type Runner struct {
	queue  Queue
	blobs  storage.System
	logger *slog.Logger
}

// NewRunner creates a cleanup runner over the queue and blob store.
func NewRunner(queue Queue, blobs storage.System, logger *slog.Logger) *Runner {
	return &Runner{
		queue:  queue,
		blobs:  blobs,
		logger: logger.With("system", "cleanup-runner"),
	}
}

// Run drains up to limit tasks and reports run statistics. Tasks finalized
// before an aborting failure stay finalized.
func (r *Runner) Run(ctx context.Context, limit int) (Stats, error) {
	var stats Stats

	tasks, err := r.queue.List(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("fetch cleanup batch: %w", err)
	}

	for _, task := range tasks {
		stats.Processed++

		if err := r.blobs.Delete(ctx, task.ObjectKey); err != nil {
			stats.Failed++
			r.logger.Warn("blob delete failed, retaining task",
				"object_key", task.ObjectKey,
				"retry_count", task.RetryCount,
				"error", err,
			)
			if markErr := r.queue.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
				return stats, fmt.Errorf("mark task %d failed: %w", task.ID, markErr)
			}
			continue
		}

		if err := r.queue.Delete(ctx, task.ID); err != nil {
			return stats, fmt.Errorf("finalize task %d: %w", task.ID, err)
		}
		stats.Deleted++
	}

	remaining, err := r.queue.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("count remaining tasks: %w", err)
	}
	stats.Remaining = remaining

	r.logger.Info("cleanup run complete",
		"processed", stats.Processed,
		"deleted", stats.Deleted,
		"failed", stats.Failed,
		"remaining", stats.Remaining,
	)

	return stats, nil
}
