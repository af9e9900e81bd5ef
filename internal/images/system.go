package images

import (
	"context"

	"github.com/google/uuid"
)

// Disposition reports how an operation that spans both stores concluded.
type Disposition string

// Dispositions.
const (
	// DispositionClean means both stores agree; no compensation was needed.
	DispositionClean Disposition = "clean"

	// DispositionCleanupQueued means the metadata change committed but the
	// blob store is temporarily out of sync; a cleanup task will reconcile it.
	DispositionCleanupQueued Disposition = "cleanup_queued"
)

// System defines the image lifecycle operations.
type System interface {
	Handler() *Handler

	// Upload stores the file bytes and inserts the metadata row, assigning
	// the next sort order. It never reports success when the metadata insert
	// failed, even if the blob was written.
	Upload(ctx context.Context, entityID uuid.UUID, cmd UploadCommand) (*Image, error)

	// Delete removes the image row, restores the dense sort order, then
	// best-effort deletes the blob. The metadata deletion is the durability
	// boundary: a blob-delete failure still reports success, with
	// DispositionCleanupQueued.
	Delete(ctx context.Context, entityID, imageID uuid.UUID) (Disposition, error)

	// Reorder sets each image's sort order to its 1-based index in ordered.
	// Submitting the current order is a no-op.
	Reorder(ctx context.Context, entityID uuid.UUID, ordered []uuid.UUID) error

	// List returns the entity's images sorted by sort order.
	List(ctx context.Context, entityID uuid.UUID) ([]Image, error)

	// Data retrieves the raw image bytes and content type.
	Data(ctx context.Context, entityID, imageID uuid.UUID) ([]byte, string, error)
}
