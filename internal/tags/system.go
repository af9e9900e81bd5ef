package tags

import (
	"context"

	"github.com/google/uuid"
)

// System defines the tag management operations.
type System interface {
	Handler() *Handler

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]Tag, error)

	// Create adds a tag. Duplicate names conflict.
	Create(ctx context.Context, cmd CreateCommand) (*Tag, error)

	// Delete removes a tag and its entity assignments.
	Delete(ctx context.Context, id int) error

	// Attach assigns a tag to an entity. Attaching an already-attached tag
	// succeeds without effect.
	Attach(ctx context.Context, entityID uuid.UUID, tagID int) error

	// Detach removes a tag assignment from an entity.
	Detach(ctx context.Context, entityID uuid.UUID, tagID int) error

	// ForEntity lists the tags attached to an entity.
	ForEntity(ctx context.Context, entityID uuid.UUID) ([]Tag, error)
}
