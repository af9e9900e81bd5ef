package tags

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/curiolist/curio/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates the tag management system.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "tags"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// scanTag reads a Tag from a database row.
func scanTag(s repository.Scanner) (Tag, error) {
	var t Tag
	err := s.Scan(&t.ID, &t.Name)
	return t, err
}

func (r *repo) List(ctx context.Context) ([]Tag, error) {
	tags, err := repository.QueryMany(ctx, r.db,
		`SELECT id, name FROM tags ORDER BY name`, nil, scanTag)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	return tags, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Tag, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `INSERT INTO tags (name) VALUES ($1) RETURNING id, name`

	tag, err := repository.QueryOne(ctx, r.db, q, []any{cmd.Name}, scanTag)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	return &tag, nil
}

func (r *repo) Delete(ctx context.Context, id int) error {
	if err := repository.ExecExpectOne(ctx, r.db,
		`DELETE FROM tags WHERE id = $1`, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Attach(ctx context.Context, entityID uuid.UUID, tagID int) error {
	q := `INSERT INTO entity_tags (entity_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (entity_id, tag_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, entityID, tagID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w (entity or tag missing)", ErrEntityNotFound)
		}
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

func (r *repo) Detach(ctx context.Context, entityID uuid.UUID, tagID int) error {
	q := `DELETE FROM entity_tags WHERE entity_id = $1 AND tag_id = $2`

	if err := repository.ExecExpectOne(ctx, r.db, q, entityID, tagID); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) ForEntity(ctx context.Context, entityID uuid.UUID) ([]Tag, error) {
	q := `SELECT t.id, t.name FROM tags t
		JOIN entity_tags et ON et.tag_id = t.id
		WHERE et.entity_id = $1
		ORDER BY t.name`

	tags, err := repository.QueryMany(ctx, r.db, q, []any{entityID}, scanTag)
	if err != nil {
		return nil, fmt.Errorf("query entity tags: %w", err)
	}
	return tags, nil
}
