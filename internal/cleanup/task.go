// Package cleanup implements the durable compensation queue that reconciles
// the blob store with the metadata store after partial failures. Tasks are
// keyed by blob object key and retried until the orphaned blob is gone;
// at-least-once semantics, no retry cap.
package cleanup

import "time"

// Reason records which failure path enqueued a task.
type Reason string

// Task reasons.
const (
	// ReasonMetadataInsertFailed marks a blob written during an upload whose
	// metadata insert failed and whose rollback delete also failed.
	ReasonMetadataInsertFailed Reason = "metadata_insert_failed"

	// ReasonImageDeleteFailed marks a blob whose metadata row was deleted but
	// whose blob delete failed.
	ReasonImageDeleteFailed Reason = "entity_image_delete_failed"
)

// Task is one pending compensation action: delete the blob at ObjectKey.
type Task struct {
	ID         int64     `json:"id"`
	ObjectKey  string    `json:"object_key"`
	Reason     Reason    `json:"reason"`
	LastError  *string   `json:"last_error,omitempty"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Stats reports the outcome of one cleanup run.
type Stats struct {
	Processed int `json:"processed"`
	Deleted   int `json:"deleted"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}
