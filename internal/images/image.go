package images

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Image is the metadata row for one uploaded entity image. ObjectKey points
// into the blob store; SortOrder values for an entity's images are dense 1..N
// with no gaps or duplicates.
type Image struct {
	ID        uuid.UUID `json:"id"`
	EntityID  uuid.UUID `json:"entity_id"`
	ObjectKey string    `json:"object_key"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// mimeExtensions is the upload allow-set mapping each accepted type to the
// extension used in derived object keys.
var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadCommand carries one file upload.
type UploadCommand struct {
	FileName string
	MimeType string
	Data     []byte
}

// Validate checks the upload against the size bound and MIME allow-set.
func (c *UploadCommand) Validate(maxSize int64) error {
	if len(c.Data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidFile)
	}
	if int64(len(c.Data)) > maxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrFileTooLarge, maxSize)
	}
	if _, ok := mimeExtensions[c.MimeType]; !ok {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidFile, c.MimeType)
	}
	return nil
}

// objectKey derives the deterministic blob key for an image.
func objectKey(entityID, imageID uuid.UUID, mimeType string) string {
	return fmt.Sprintf("entities/%s/%s%s", entityID, imageID, mimeExtensions[mimeType])
}

// sanitizeFileName strips path components and shell-hostile characters from
// an uploaded file name before it is stored.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
