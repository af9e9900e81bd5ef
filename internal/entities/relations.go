package entities

import (
	"bytes"
	"context"
	"fmt"

	"github.com/curiolist/curio/pkg/repository"
	"github.com/google/uuid"
)

// canonicalPair orders an unordered entity pair as (low, high) so the edge is
// stored once and the relation stays symmetric.
func canonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}

func (r *repo) Relate(ctx context.Context, a, b uuid.UUID) error {
	if a == b {
		return ErrSelfRelation
	}

	for _, id := range []uuid.UUID{a, b} {
		exists, err := r.entityExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}

	low, high := canonicalPair(a, b)
	q := `INSERT INTO entity_relations (low_id, high_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, q, low, high); err != nil {
		return repository.MapError(err, ErrRelationNotFound, ErrRelationDuplicate)
	}

	r.logger.Info("entities related", "low", low, "high", high)
	return nil
}

func (r *repo) Unrelate(ctx context.Context, a, b uuid.UUID) error {
	low, high := canonicalPair(a, b)
	q := `DELETE FROM entity_relations WHERE low_id = $1 AND high_id = $2`

	if err := repository.ExecExpectOne(ctx, r.db, q, low, high); err != nil {
		return repository.MapError(err, ErrRelationNotFound, ErrRelationDuplicate)
	}

	return nil
}

func (r *repo) Related(ctx context.Context, id uuid.UUID) ([]Entity, error) {
	exists, err := r.entityExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	q := `SELECT e.id, e.kind_id, e.name, e.description, e.is_wishlist, e.created_at, e.updated_at
		FROM entities e
		JOIN entity_relations r
			ON (r.low_id = $1 AND e.id = r.high_id)
			OR (r.high_id = $1 AND e.id = r.low_id)
		ORDER BY e.created_at DESC, e.id DESC`

	related, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanEntity)
	if err != nil {
		return nil, fmt.Errorf("query related entities: %w", err)
	}
	return related, nil
}
