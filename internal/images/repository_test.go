package images_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/curiolist/curio/internal/cleanup"
	"github.com/curiolist/curio/internal/images"
	"github.com/google/uuid"
)

const maxUpload = 1 << 20

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory metadata store.
type fakeStore struct {
	entities     map[uuid.UUID]bool
	images       []images.Image
	insertErr    error
	reorderCalls int
}

func newFakeStore(entityIDs ...uuid.UUID) *fakeStore {
	s := &fakeStore{entities: make(map[uuid.UUID]bool)}
	for _, id := range entityIDs {
		s.entities[id] = true
	}
	return s
}

func (s *fakeStore) EntityExists(ctx context.Context, entityID uuid.UUID) (bool, error) {
	return s.entities[entityID], nil
}

func (s *fakeStore) Insert(ctx context.Context, img *images.Image) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.images = append(s.images, *img)
	return nil
}

func (s *fakeStore) Find(ctx context.Context, entityID, imageID uuid.UUID) (*images.Image, error) {
	for _, img := range s.images {
		if img.EntityID == entityID && img.ID == imageID {
			found := img
			return &found, nil
		}
	}
	return nil, images.ErrNotFound
}

func (s *fakeStore) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]images.Image, error) {
	var out []images.Image
	for _, img := range s.images {
		if img.EntityID == entityID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *fakeStore) NextSortOrder(ctx context.Context, entityID uuid.UUID) (int, error) {
	max := 0
	for _, img := range s.images {
		if img.EntityID == entityID && img.SortOrder > max {
			max = img.SortOrder
		}
	}
	return max + 1, nil
}

func (s *fakeStore) DeleteAndCollapse(ctx context.Context, target *images.Image) error {
	idx := -1
	for i, img := range s.images {
		if img.ID == target.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return images.ErrNotFound
	}

	removed := s.images[idx]
	s.images = append(s.images[:idx], s.images[idx+1:]...)
	for i := range s.images {
		if s.images[i].EntityID == removed.EntityID && s.images[i].SortOrder > removed.SortOrder {
			s.images[i].SortOrder--
		}
	}
	return nil
}

func (s *fakeStore) Reorder(ctx context.Context, entityID uuid.UUID, ordered []uuid.UUID) error {
	s.reorderCalls++
	for pos, id := range ordered {
		for i := range s.images {
			if s.images[i].ID == id {
				s.images[i].SortOrder = pos + 1
			}
		}
	}
	return nil
}

// fakeBlobs is an in-memory blob store with switchable failures.
type fakeBlobs struct {
	files       map[string][]byte
	storeErr    error
	deleteErr   error
	retrieveErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{files: make(map[string][]byte)}
}

func (b *fakeBlobs) Store(ctx context.Context, key string, data []byte, contentType string) error {
	if b.storeErr != nil {
		return b.storeErr
	}
	b.files[key] = data
	return nil
}

func (b *fakeBlobs) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if b.retrieveErr != nil {
		return nil, b.retrieveErr
	}
	data, ok := b.files[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (b *fakeBlobs) Delete(ctx context.Context, key string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.files, key)
	return nil
}

func (b *fakeBlobs) Validate(ctx context.Context, key string) (bool, error) {
	_, ok := b.files[key]
	return ok, nil
}

// fakeQueue is an in-memory cleanup queue with upsert-by-key semantics.
type fakeQueue struct {
	tasks      []cleanup.Task
	nextID     int64
	enqueueErr error
}

func (q *fakeQueue) Enqueue(ctx context.Context, objectKey string, reason cleanup.Reason, lastError string) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	for i := range q.tasks {
		if q.tasks[i].ObjectKey == objectKey {
			q.tasks[i].Reason = reason
			q.tasks[i].RetryCount++
			if lastError != "" {
				q.tasks[i].LastError = &lastError
			}
			return nil
		}
	}
	q.nextID++
	task := cleanup.Task{ID: q.nextID, ObjectKey: objectKey, Reason: reason}
	if lastError != "" {
		task.LastError = &lastError
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeQueue) List(ctx context.Context, limit int) ([]cleanup.Task, error) {
	if limit > len(q.tasks) {
		limit = len(q.tasks)
	}
	out := make([]cleanup.Task, limit)
	copy(out, q.tasks[:limit])
	return out, nil
}

func (q *fakeQueue) MarkFailed(ctx context.Context, id int64, lastError string) error {
	for i := range q.tasks {
		if q.tasks[i].ID == id {
			q.tasks[i].RetryCount++
			q.tasks[i].LastError = &lastError
			return nil
		}
	}
	return cleanup.ErrTaskNotFound
}

func (q *fakeQueue) Delete(ctx context.Context, id int64) error {
	for i := range q.tasks {
		if q.tasks[i].ID == id {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return nil
		}
	}
	return cleanup.ErrTaskNotFound
}

func (q *fakeQueue) Count(ctx context.Context) (int, error) {
	return len(q.tasks), nil
}

type fixture struct {
	store *fakeStore
	blobs *fakeBlobs
	queue *fakeQueue
	sys   images.System
}

func newFixture(entityIDs ...uuid.UUID) *fixture {
	store := newFakeStore(entityIDs...)
	blobs := newFakeBlobs()
	queue := &fakeQueue{}
	return &fixture{
		store: store,
		blobs: blobs,
		queue: queue,
		sys:   images.New(store, blobs, queue, discardLogger(), maxUpload),
	}
}

func validUpload(name string) images.UploadCommand {
	return images.UploadCommand{
		FileName: name,
		MimeType: "image/png",
		Data:     []byte("png bytes"),
	}
}

func TestUpload_Success(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)

	img, err := f.sys.Upload(context.Background(), entityID, validUpload("cover.png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if img.SortOrder != 1 {
		t.Errorf("SortOrder = %d, want 1", img.SortOrder)
	}
	if img.FileSize != int64(len("png bytes")) {
		t.Errorf("FileSize = %d, want %d", img.FileSize, len("png bytes"))
	}

	wantKey := fmt.Sprintf("entities/%s/%s.png", entityID, img.ID)
	if img.ObjectKey != wantKey {
		t.Errorf("ObjectKey = %q, want %q", img.ObjectKey, wantKey)
	}

	if _, ok := f.blobs.files[img.ObjectKey]; !ok {
		t.Error("blob not written")
	}
	if len(f.store.images) != 1 {
		t.Errorf("store rows = %d, want 1", len(f.store.images))
	}
	if len(f.queue.tasks) != 0 {
		t.Errorf("queue tasks = %d, want 0", len(f.queue.tasks))
	}
}

func TestUpload_SortOrderIncrements(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		img, err := f.sys.Upload(ctx, entityID, validUpload(fmt.Sprintf("img%d.png", want)))
		if err != nil {
			t.Fatalf("Upload() #%d error = %v", want, err)
		}
		if img.SortOrder != want {
			t.Errorf("Upload() #%d SortOrder = %d, want %d", want, img.SortOrder, want)
		}
	}
}

func TestUpload_EntityMissing(t *testing.T) {
	f := newFixture()

	_, err := f.sys.Upload(context.Background(), uuid.New(), validUpload("cover.png"))
	if !errors.Is(err, images.ErrEntityNotFound) {
		t.Errorf("Upload() error = %v, want ErrEntityNotFound", err)
	}
	if len(f.blobs.files) != 0 {
		t.Error("blob written for missing entity")
	}
}

func TestUpload_InvalidFile(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)

	cmd := images.UploadCommand{FileName: "doc.pdf", MimeType: "application/pdf", Data: []byte("x")}
	_, err := f.sys.Upload(context.Background(), entityID, cmd)
	if !errors.Is(err, images.ErrInvalidFile) {
		t.Errorf("Upload() error = %v, want ErrInvalidFile", err)
	}
	if len(f.blobs.files) != 0 {
		t.Error("blob written for rejected upload")
	}
}

func TestUpload_InsertFailsRollbackSucceeds(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	f.store.insertErr = errors.New("insert boom")

	_, err := f.sys.Upload(context.Background(), entityID, validUpload("cover.png"))
	if err == nil {
		t.Fatal("Upload() error = nil, want error")
	}

	if len(f.blobs.files) != 0 {
		t.Error("orphan blob left after successful rollback")
	}
	if len(f.queue.tasks) != 0 {
		t.Errorf("queue tasks = %d, want 0 when rollback succeeded", len(f.queue.tasks))
	}
	if len(f.store.images) != 0 {
		t.Error("metadata row present after failed insert")
	}
}

func TestUpload_InsertFailsRollbackFails(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	f.store.insertErr = errors.New("insert boom")
	f.blobs.deleteErr = errors.New("delete boom")

	_, err := f.sys.Upload(context.Background(), entityID, validUpload("cover.png"))
	if err == nil {
		t.Fatal("Upload() error = nil, want error")
	}

	if len(f.queue.tasks) != 1 {
		t.Fatalf("queue tasks = %d, want exactly 1", len(f.queue.tasks))
	}

	task := f.queue.tasks[0]
	if task.Reason != cleanup.ReasonMetadataInsertFailed {
		t.Errorf("task reason = %q, want %q", task.Reason, cleanup.ReasonMetadataInsertFailed)
	}
	if task.RetryCount != 0 {
		t.Errorf("task retry count = %d, want 0", task.RetryCount)
	}
	if task.LastError == nil || *task.LastError != "delete boom" {
		t.Errorf("task last error = %v, want delete boom", task.LastError)
	}

	// The blob the task points at is the one left behind.
	if _, ok := f.blobs.files[task.ObjectKey]; !ok {
		t.Error("task object key does not match the orphaned blob")
	}
}

func TestUpload_InsertAndEnqueueFail(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	f.store.insertErr = errors.New("insert boom")
	f.blobs.deleteErr = errors.New("delete boom")
	f.queue.enqueueErr = errors.New("enqueue boom")

	_, err := f.sys.Upload(context.Background(), entityID, validUpload("cover.png"))
	if !errors.Is(err, images.ErrStorageFailure) {
		t.Errorf("Upload() error = %v, want ErrStorageFailure", err)
	}
}

func TestDelete_Clean(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	img, err := f.sys.Upload(ctx, entityID, validUpload("cover.png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	disposition, err := f.sys.Delete(ctx, entityID, img.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if disposition != images.DispositionClean {
		t.Errorf("disposition = %q, want %q", disposition, images.DispositionClean)
	}

	if len(f.store.images) != 0 {
		t.Error("metadata row still present")
	}
	if len(f.blobs.files) != 0 {
		t.Error("blob still present")
	}
	if len(f.queue.tasks) != 0 {
		t.Error("cleanup task queued for clean delete")
	}
}

func TestDelete_CollapsesSortOrder(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	var imgs []*images.Image
	for i := 0; i < 3; i++ {
		img, err := f.sys.Upload(ctx, entityID, validUpload(fmt.Sprintf("img%d.png", i)))
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		imgs = append(imgs, img)
	}

	// Remove the middle image; the third must slide into its slot.
	if _, err := f.sys.Delete(ctx, entityID, imgs[1].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	remaining, err := f.sys.List(ctx, entityID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("List() = %d images, want 2", len(remaining))
	}
	for i, img := range remaining {
		if img.SortOrder != i+1 {
			t.Errorf("image %d SortOrder = %d, want %d", i, img.SortOrder, i+1)
		}
	}
	if remaining[0].ID != imgs[0].ID || remaining[1].ID != imgs[2].ID {
		t.Error("surviving images out of order after collapse")
	}
}

func TestDelete_BlobFailureQueuesCleanup(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	img, err := f.sys.Upload(ctx, entityID, validUpload("cover.png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	f.blobs.deleteErr = errors.New("delete boom")

	disposition, err := f.sys.Delete(ctx, entityID, img.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v, want success with queued cleanup", err)
	}
	if disposition != images.DispositionCleanupQueued {
		t.Errorf("disposition = %q, want %q", disposition, images.DispositionCleanupQueued)
	}

	// The row is gone regardless of the blob outcome.
	if len(f.store.images) != 0 {
		t.Error("metadata row still present")
	}

	if len(f.queue.tasks) != 1 {
		t.Fatalf("queue tasks = %d, want 1", len(f.queue.tasks))
	}
	task := f.queue.tasks[0]
	if task.Reason != cleanup.ReasonImageDeleteFailed {
		t.Errorf("task reason = %q, want %q", task.Reason, cleanup.ReasonImageDeleteFailed)
	}
	if task.ObjectKey != img.ObjectKey {
		t.Errorf("task object key = %q, want %q", task.ObjectKey, img.ObjectKey)
	}
}

func TestDelete_BlobAndEnqueueFail(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	img, err := f.sys.Upload(ctx, entityID, validUpload("cover.png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	f.blobs.deleteErr = errors.New("delete boom")
	f.queue.enqueueErr = errors.New("enqueue boom")

	_, err = f.sys.Delete(ctx, entityID, img.ID)
	if !errors.Is(err, images.ErrStorageFailure) {
		t.Errorf("Delete() error = %v, want ErrStorageFailure", err)
	}
}

func TestDelete_ImageMissing(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)

	_, err := f.sys.Delete(context.Background(), entityID, uuid.New())
	if !errors.Is(err, images.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestDelete_EntityMissing(t *testing.T) {
	f := newFixture()

	_, err := f.sys.Delete(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, images.ErrEntityNotFound) {
		t.Errorf("Delete() error = %v, want ErrEntityNotFound", err)
	}
}

func TestReorder_AssignsDenseOrder(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		img, err := f.sys.Upload(ctx, entityID, validUpload(fmt.Sprintf("img%d.png", i)))
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		ids = append(ids, img.ID)
	}

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	if err := f.sys.Reorder(ctx, entityID, reversed); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	got, err := f.sys.List(ctx, entityID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for i, img := range got {
		if img.ID != reversed[i] {
			t.Errorf("position %d = %s, want %s", i, img.ID, reversed[i])
		}
		if img.SortOrder != i+1 {
			t.Errorf("position %d SortOrder = %d, want %d", i, img.SortOrder, i+1)
		}
	}
}

func TestReorder_Rejections(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		img, err := f.sys.Upload(ctx, entityID, validUpload(fmt.Sprintf("img%d.png", i)))
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		ids = append(ids, img.ID)
	}

	tests := []struct {
		name    string
		ordered []uuid.UUID
	}{
		{"too few ids", []uuid.UUID{ids[0]}},
		{"too many ids", []uuid.UUID{ids[0], ids[1], uuid.New()}},
		{"duplicate id", []uuid.UUID{ids[0], ids[0]}},
		{"foreign id", []uuid.UUID{ids[0], uuid.New()}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.sys.Reorder(ctx, entityID, tt.ordered)
			if !errors.Is(err, images.ErrInvalidOrder) {
				t.Errorf("Reorder() error = %v, want ErrInvalidOrder", err)
			}
		})
	}

	if f.store.reorderCalls != 0 {
		t.Errorf("store reorder calls = %d, want 0 for rejected submissions", f.store.reorderCalls)
	}
}

func TestReorder_CurrentOrderIsNoOp(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		img, err := f.sys.Upload(ctx, entityID, validUpload(fmt.Sprintf("img%d.png", i)))
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		ids = append(ids, img.ID)
	}

	if err := f.sys.Reorder(ctx, entityID, ids); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if f.store.reorderCalls != 0 {
		t.Errorf("store reorder calls = %d, want 0 for unchanged order", f.store.reorderCalls)
	}
}

func TestData(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	img, err := f.sys.Upload(ctx, entityID, validUpload("cover.png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	data, contentType, err := f.sys.Data(ctx, entityID, img.ID)
	if err != nil {
		t.Fatalf("Data() error = %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("Data() = %q, want %q", data, "png bytes")
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", contentType)
	}
}

func TestData_BlobMissing(t *testing.T) {
	entityID := uuid.New()
	f := newFixture(entityID)
	ctx := context.Background()

	img, err := f.sys.Upload(ctx, entityID, validUpload("cover.png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	f.blobs.retrieveErr = errors.New("retrieve boom")

	_, _, err = f.sys.Data(ctx, entityID, img.ID)
	if !errors.Is(err, images.ErrStorageFailure) {
		t.Errorf("Data() error = %v, want ErrStorageFailure", err)
	}
}
