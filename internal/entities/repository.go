package entities

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/curiolist/curio/internal/cleanup"
	"github.com/curiolist/curio/internal/storage"
	"github.com/curiolist/curio/pkg/pagination"
	"github.com/curiolist/curio/pkg/query"
	"github.com/curiolist/curio/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	blobs      storage.System
	queue      cleanup.Queue
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the entity management system.
func New(
	db *sql.DB,
	blobs storage.System,
	queue cleanup.Queue,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		blobs:      blobs,
		queue:      queue,
		logger:     logger.With("system", "entities"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, limit int, cursor string, filters Filters) (*pagination.Page[Entity], error) {
	limit = pagination.ClampLimit(limit, r.pagination)

	qb := query.NewBuilder(projection)
	filters.Apply(qb)

	// Count before the cursor predicate so total covers the whole filtered set.
	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}

	if cursor != "" {
		cur, err := pagination.DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(cur.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: id %q", pagination.ErrInvalidCursor, cur.ID)
		}
		qb.WhereBefore("CreatedAt", "ID", cur.CreatedAt, id)
	}

	pageSQL, pageArgs := qb.BuildKeyset("CreatedAt", "ID", limit+1)
	rows, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntity)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}

	page := pagination.NewPage(rows, limit, total, func(e Entity) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.ID.String()}
	})
	return &page, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Entity, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	entity, err := repository.QueryOne(ctx, r.db, q, args, scanEntity)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &entity, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Entity, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	exists, err := r.kindExists(ctx, cmd.KindID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrKindNotFound
	}

	q := `INSERT INTO entities (id, kind_id, name, description, is_wishlist)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, kind_id, name, description, is_wishlist, created_at, updated_at`

	entity, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entity, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), cmd.KindID, cmd.Name, cmd.Description, cmd.Wishlist,
		}, scanEntity)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entity created", "id", entity.ID, "name", entity.Name, "kind_id", entity.KindID)
	return &entity, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Entity, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `UPDATE entities SET name = $1, description = $2, is_wishlist = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, kind_id, name, description, is_wishlist, created_at, updated_at`

	entity, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entity, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.Description, cmd.Wishlist, id}, scanEntity)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entity updated", "id", entity.ID, "name", entity.Name)
	return &entity, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	keys, err := repository.QueryMany(ctx, r.db,
		`SELECT object_key FROM entity_images WHERE entity_id = $1`,
		[]any{id},
		func(s repository.Scanner) (string, error) {
			var key string
			err := s.Scan(&key)
			return key, err
		},
	)
	if err != nil {
		return fmt.Errorf("collect image keys: %w", err)
	}

	// Image rows go with the entity through the FK cascade; the metadata
	// delete is the durability boundary and blob removal is best effort.
	q := `DELETE FROM entities WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range keys {
		if delErr := r.blobs.Delete(ctx, key); delErr != nil {
			if enqErr := r.queue.Enqueue(ctx, key, cleanup.ReasonImageDeleteFailed, delErr.Error()); enqErr != nil {
				return fmt.Errorf("enqueue cleanup for %s: %w", key, enqErr)
			}
		}
	}

	r.logger.Info("entity deleted", "id", id, "images", len(keys))
	return nil
}

func (r *repo) Kinds(ctx context.Context) ([]Kind, error) {
	kinds, err := repository.QueryMany(ctx, r.db,
		`SELECT id, name FROM kinds ORDER BY id`, nil, scanKind)
	if err != nil {
		return nil, fmt.Errorf("query kinds: %w", err)
	}
	return kinds, nil
}

func (r *repo) kindExists(ctx context.Context, kindID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM kinds WHERE id = $1)`, kindID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check kind: %w", err)
	}
	return exists, nil
}

func (r *repo) entityExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM entities WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check entity: %w", err)
	}
	return exists, nil
}
