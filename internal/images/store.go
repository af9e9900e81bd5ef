package images

import (
	"context"

	"github.com/google/uuid"
)

// Store is the metadata-store surface the coordinator needs. It is an
// injected dependency so tests can drive the compensation paths with an
// in-memory implementation and forced failures.
type Store interface {
	// EntityExists reports whether the owning entity is present.
	EntityExists(ctx context.Context, entityID uuid.UUID) (bool, error)

	// Insert persists a new image row.
	Insert(ctx context.Context, img *Image) error

	// Find retrieves an image belonging to the entity.
	Find(ctx context.Context, entityID, imageID uuid.UUID) (*Image, error)

	// ListByEntity returns the entity's images ordered by sort_order.
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]Image, error)

	// NextSortOrder computes max(sort_order)+1 for the entity. This is a
	// read-then-write without a lock; concurrent uploads to the same entity
	// can race, and the unique (entity_id, sort_order) index turns a lost
	// race into a conflict.
	NextSortOrder(ctx context.Context, entityID uuid.UUID) (int, error)

	// DeleteAndCollapse removes the image row and decrements the sort_order
	// of every sibling above it, restoring the dense 1..N invariant. Both
	// statements run in one atomic batch.
	DeleteAndCollapse(ctx context.Context, img *Image) error

	// Reorder assigns sort_order = 1-based index of each id in ordered, as
	// one atomic batch. Callers must have validated that ordered is a
	// permutation of the entity's image ids.
	Reorder(ctx context.Context, entityID uuid.UUID, ordered []uuid.UUID) error
}
