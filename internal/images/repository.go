package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curiolist/curio/internal/cleanup"
	"github.com/curiolist/curio/internal/storage"
	"github.com/google/uuid"
)

type repo struct {
	store     Store
	blobs     storage.System
	queue     cleanup.Queue
	logger    *slog.Logger
	maxUpload int64
}

// New creates the image lifecycle coordinator.
func New(
	store Store,
	blobs storage.System,
	queue cleanup.Queue,
	logger *slog.Logger,
	maxUpload int64,
) System {
	return &repo{
		store:     store,
		blobs:     blobs,
		queue:     queue,
		logger:    logger.With("system", "images"),
		maxUpload: maxUpload,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.maxUpload)
}

func (r *repo) Upload(ctx context.Context, entityID uuid.UUID, cmd UploadCommand) (*Image, error) {
	exists, err := r.store.EntityExists(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	if err := cmd.Validate(r.maxUpload); err != nil {
		return nil, err
	}

	// max+1 is read-then-write without a lock; concurrent uploads to the
	// same entity can race and surface as a sort-order conflict.
	sortOrder, err := r.store.NextSortOrder(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	img := &Image{
		ID:        uuid.New(),
		EntityID:  entityID,
		FileName:  sanitizeFileName(cmd.FileName),
		MimeType:  cmd.MimeType,
		FileSize:  int64(len(cmd.Data)),
		SortOrder: sortOrder,
	}
	img.ObjectKey = objectKey(entityID, img.ID, cmd.MimeType)

	if err := r.blobs.Store(ctx, img.ObjectKey, cmd.Data, cmd.MimeType); err != nil {
		return nil, fmt.Errorf("%w: store blob: %v", ErrStorageFailure, err)
	}

	if insertErr := r.store.Insert(ctx, img); insertErr != nil {
		// The blob is already written; roll it back, and if even that fails
		// hand the orphan to the cleanup queue. The caller sees a failure
		// regardless.
		if delErr := r.blobs.Delete(ctx, img.ObjectKey); delErr != nil {
			if enqErr := r.queue.Enqueue(ctx, img.ObjectKey, cleanup.ReasonMetadataInsertFailed, delErr.Error()); enqErr != nil {
				return nil, fmt.Errorf("%w: insert failed (%v), rollback failed (%v), enqueue failed: %v",
					ErrStorageFailure, insertErr, delErr, enqErr)
			}
			r.logger.Warn("upload rollback failed, cleanup queued",
				"object_key", img.ObjectKey, "error", delErr)
		}
		return nil, insertErr
	}

	r.logger.Info("image uploaded",
		"entity_id", entityID, "image_id", img.ID,
		"object_key", img.ObjectKey, "sort_order", img.SortOrder)
	return img, nil
}

func (r *repo) Delete(ctx context.Context, entityID, imageID uuid.UUID) (Disposition, error) {
	img, err := r.findOwned(ctx, entityID, imageID)
	if err != nil {
		return DispositionClean, err
	}

	if err := r.store.DeleteAndCollapse(ctx, img); err != nil {
		return DispositionClean, err
	}

	// An orphan blob is just wasted storage, recoverable by the queue; a
	// metadata row without a blob would be a broken read. So the row delete
	// decides success and the blob delete is best effort.
	if delErr := r.blobs.Delete(ctx, img.ObjectKey); delErr != nil {
		if enqErr := r.queue.Enqueue(ctx, img.ObjectKey, cleanup.ReasonImageDeleteFailed, delErr.Error()); enqErr != nil {
			return DispositionClean, fmt.Errorf("%w: blob delete failed (%v), enqueue failed: %v",
				ErrStorageFailure, delErr, enqErr)
		}
		r.logger.Warn("blob delete failed, cleanup queued",
			"object_key", img.ObjectKey, "error", delErr)
		return DispositionCleanupQueued, nil
	}

	r.logger.Info("image deleted", "entity_id", entityID, "image_id", imageID)
	return DispositionClean, nil
}

func (r *repo) Reorder(ctx context.Context, entityID uuid.UUID, ordered []uuid.UUID) error {
	current, err := r.List(ctx, entityID)
	if err != nil {
		return err
	}

	if err := validateOrder(current, ordered); err != nil {
		return err
	}

	if orderUnchanged(current, ordered) {
		return nil
	}

	if err := r.store.Reorder(ctx, entityID, ordered); err != nil {
		return err
	}

	r.logger.Info("images reordered", "entity_id", entityID, "count", len(ordered))
	return nil
}

func (r *repo) List(ctx context.Context, entityID uuid.UUID) ([]Image, error) {
	exists, err := r.store.EntityExists(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	return r.store.ListByEntity(ctx, entityID)
}

func (r *repo) Data(ctx context.Context, entityID, imageID uuid.UUID) ([]byte, string, error) {
	img, err := r.findOwned(ctx, entityID, imageID)
	if err != nil {
		return nil, "", err
	}

	data, err := r.blobs.Retrieve(ctx, img.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("%w: retrieve blob: %v", ErrStorageFailure, err)
	}

	return data, img.MimeType, nil
}

func (r *repo) findOwned(ctx context.Context, entityID, imageID uuid.UUID) (*Image, error) {
	exists, err := r.store.EntityExists(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	return r.store.Find(ctx, entityID, imageID)
}

// validateOrder rejects a submitted order with the wrong cardinality,
// duplicates, or ids not belonging to the entity.
func validateOrder(current []Image, ordered []uuid.UUID) error {
	if len(ordered) != len(current) {
		return fmt.Errorf("%w: expected %d ids, got %d", ErrInvalidOrder, len(current), len(ordered))
	}

	owned := make(map[uuid.UUID]bool, len(current))
	for _, img := range current {
		owned[img.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(ordered))
	for _, id := range ordered {
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidOrder, id)
		}
		seen[id] = true

		if !owned[id] {
			return fmt.Errorf("%w: id %s does not belong to entity", ErrInvalidOrder, id)
		}
	}

	return nil
}

// orderUnchanged reports whether ordered matches the current sort order.
func orderUnchanged(current []Image, ordered []uuid.UUID) bool {
	for i, img := range current {
		if img.ID != ordered[i] {
			return false
		}
	}
	return true
}
