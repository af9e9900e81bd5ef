package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/curiolist/curio/pkg/repository"
)

type pgQueue struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewQueue creates the Postgres-backed task queue.
func NewQueue(db *sql.DB, logger *slog.Logger) Queue {
	return &pgQueue{
		db:     db,
		logger: logger.With("system", "cleanup"),
	}
}

// scanTask reads a Task from a database row.
func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(
		&t.ID,
		&t.ObjectKey,
		&t.Reason,
		&t.LastError,
		&t.RetryCount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const taskColumns = "id, object_key, reason, last_error, retry_count, created_at, updated_at"

func (q *pgQueue) Enqueue(ctx context.Context, objectKey string, reason Reason, lastError string) error {
	if objectKey == "" {
		return fmt.Errorf("%w: empty object key", ErrInvalidTask)
	}

	stmt := `INSERT INTO cleanup_tasks (object_key, reason, last_error)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (object_key) DO UPDATE SET
			reason = EXCLUDED.reason,
			last_error = EXCLUDED.last_error,
			retry_count = cleanup_tasks.retry_count + 1,
			updated_at = NOW()`

	if _, err := q.db.ExecContext(ctx, stmt, objectKey, reason, lastError); err != nil {
		return fmt.Errorf("enqueue cleanup task: %w", err)
	}

	q.logger.Info("cleanup task enqueued", "object_key", objectKey, "reason", reason)
	return nil
}

func (q *pgQueue) List(ctx context.Context, limit int) ([]Task, error) {
	stmt := fmt.Sprintf(
		`SELECT %s FROM cleanup_tasks ORDER BY created_at ASC, id ASC LIMIT $1`,
		taskColumns,
	)

	tasks, err := repository.QueryMany(ctx, q.db, stmt, []any{limit}, scanTask)
	if err != nil {
		return nil, fmt.Errorf("list cleanup tasks: %w", err)
	}
	return tasks, nil
}

func (q *pgQueue) MarkFailed(ctx context.Context, id int64, lastError string) error {
	stmt := `UPDATE cleanup_tasks
		SET retry_count = retry_count + 1, last_error = $1, updated_at = NOW()
		WHERE id = $2`

	if err := repository.ExecExpectOne(ctx, q.db, stmt, lastError, id); err != nil {
		return repository.MapError(fmt.Errorf("mark cleanup task failed: %w", err), ErrTaskNotFound, ErrInvalidTask)
	}
	return nil
}

func (q *pgQueue) Delete(ctx context.Context, id int64) error {
	stmt := `DELETE FROM cleanup_tasks WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, q.db, stmt, id); err != nil {
		return repository.MapError(fmt.Errorf("delete cleanup task: %w", err), ErrTaskNotFound, ErrInvalidTask)
	}
	return nil
}

func (q *pgQueue) Count(ctx context.Context) (int, error) {
	var count int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cleanup_tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cleanup tasks: %w", err)
	}
	return count, nil
}
