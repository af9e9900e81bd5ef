package images

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/curiolist/curio/pkg/repository"
	"github.com/google/uuid"
)

type pgStore struct {
	db *sql.DB
}

// NewStore creates the Postgres-backed image metadata store.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

// scanImage reads an Image from a database row.
func scanImage(s repository.Scanner) (Image, error) {
	var img Image
	err := s.Scan(
		&img.ID,
		&img.EntityID,
		&img.ObjectKey,
		&img.FileName,
		&img.MimeType,
		&img.FileSize,
		&img.SortOrder,
		&img.CreatedAt,
	)
	return img, err
}

const imageColumns = "id, entity_id, object_key, file_name, mime_type, file_size, sort_order, created_at"

func (s *pgStore) EntityExists(ctx context.Context, entityID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM entities WHERE id = $1)`, entityID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check entity: %w", err)
	}
	return exists, nil
}

func (s *pgStore) Insert(ctx context.Context, img *Image) error {
	q := fmt.Sprintf(`INSERT INTO entity_images (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`, imageColumns)

	err := s.db.QueryRowContext(ctx, q,
		img.ID, img.EntityID, img.ObjectKey, img.FileName,
		img.MimeType, img.FileSize, img.SortOrder,
	).Scan(&img.CreatedAt)
	if err != nil {
		return repository.MapError(fmt.Errorf("insert image: %w", err), ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (s *pgStore) Find(ctx context.Context, entityID, imageID uuid.UUID) (*Image, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM entity_images WHERE entity_id = $1 AND id = $2`,
		imageColumns,
	)

	img, err := repository.QueryOne(ctx, s.db, q, []any{entityID, imageID}, scanImage)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &img, nil
}

func (s *pgStore) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]Image, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM entity_images WHERE entity_id = $1 ORDER BY sort_order ASC`,
		imageColumns,
	)

	imgs, err := repository.QueryMany(ctx, s.db, q, []any{entityID}, scanImage)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return imgs, nil
}

func (s *pgStore) NextSortOrder(ctx context.Context, entityID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM entity_images WHERE entity_id = $1`,
		entityID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return next, nil
}

func (s *pgStore) DeleteAndCollapse(ctx context.Context, img *Image) error {
	stmts := []repository.Statement{
		{
			SQL:  `DELETE FROM entity_images WHERE id = $1`,
			Args: []any{img.ID},
		},
		{
			SQL: `UPDATE entity_images SET sort_order = sort_order - 1
				WHERE entity_id = $1 AND sort_order > $2`,
			Args: []any{img.EntityID, img.SortOrder},
		},
	}

	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		results, err := repository.ExecBatchTx(ctx, tx, stmts)
		if err != nil {
			return struct{}{}, fmt.Errorf("delete image batch: %w", err)
		}
		if results[0].RowsAffected == 0 {
			return struct{}{}, ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

func (s *pgStore) Reorder(ctx context.Context, entityID uuid.UUID, ordered []uuid.UUID) error {
	// Move every row to a disjoint shadow range first so the final
	// assignments never collide with the unique (entity_id, sort_order)
	// constraint mid-batch.
	stmts := make([]repository.Statement, 0, len(ordered)+1)
	stmts = append(stmts, repository.Statement{
		SQL:  `UPDATE entity_images SET sort_order = -sort_order WHERE entity_id = $1`,
		Args: []any{entityID},
	})

	for i, id := range ordered {
		stmts = append(stmts, repository.Statement{
			SQL:  `UPDATE entity_images SET sort_order = $1 WHERE entity_id = $2 AND id = $3`,
			Args: []any{i + 1, entityID, id},
		})
	}

	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		results, err := repository.ExecBatchTx(ctx, tx, stmts)
		if err != nil {
			return struct{}{}, fmt.Errorf("reorder batch: %w", err)
		}

		// Each assignment must hit exactly one row or the batch rolls back.
		for i, res := range results[1:] {
			if res.RowsAffected != 1 {
				return struct{}{}, fmt.Errorf("%w: image %s not updated", ErrInvalidOrder, ordered[i])
			}
		}

		return struct{}{}, nil
	})
	return err
}
