package cleanup

import "context"

// Queue is the durable task queue. It is injected wherever compensation may
// be enqueued so tests can substitute an in-memory implementation.
type Queue interface {
	// Enqueue records a pending blob deletion. If a task for the object key
	// already exists the call merges into it: retry count increments and
	// reason/last error are overwritten. A new task starts at retry count 0.
	Enqueue(ctx context.Context, objectKey string, reason Reason, lastError string) error

	// List returns up to limit tasks in FIFO order (created_at asc, id asc).
	List(ctx context.Context, limit int) ([]Task, error)

	// MarkFailed increments the task's retry count and records the error.
	// The task remains queued.
	MarkFailed(ctx context.Context, id int64, lastError string) error

	// Delete removes a task after its compensation succeeded.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of pending tasks.
	Count(ctx context.Context) (int, error)
}
