package entities

import (
	"context"

	"github.com/curiolist/curio/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the entity management operations.
type System interface {
	Handler() *Handler

	// List returns a cursor-paginated page of entities matching the filters,
	// ordered by descending (created_at, id). An empty cursor starts from the
	// newest entity.
	List(ctx context.Context, limit int, cursor string, filters Filters) (*pagination.Page[Entity], error)

	// Find retrieves an entity by its ID.
	Find(ctx context.Context, id uuid.UUID) (*Entity, error)

	// Create adds an entity under an existing kind.
	Create(ctx context.Context, cmd CreateCommand) (*Entity, error)

	// Update mutates an entity's name, description, and wishlist flag.
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Entity, error)

	// Delete removes an entity together with its image rows and performs a
	// best-effort delete of the image blobs, queueing compensation for any
	// blob that could not be removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// Kinds lists the entity kinds.
	Kinds(ctx context.Context) ([]Kind, error)

	// Relate records the symmetric relation between two entities.
	Relate(ctx context.Context, a, b uuid.UUID) error

	// Unrelate removes the relation between two entities.
	Unrelate(ctx context.Context, a, b uuid.UUID) error

	// Related lists the entities related to the given entity.
	Related(ctx context.Context, id uuid.UUID) ([]Entity, error)
}
