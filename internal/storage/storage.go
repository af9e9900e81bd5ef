package storage

import "context"

// System defines the blob storage operations interface. Implementations
// handle the underlying mechanism (filesystem, object store) while providing
// a consistent key-addressed API. Callers must treat every operation as
// capable of failing independently of the metadata store; nothing here
// participates in a database transaction.
type System interface {
	// Store saves data at the specified key, overwriting any existing blob.
	// The content type travels with the call for backends that persist it;
	// the filesystem backend ignores it.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte, contentType string) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data at the specified key. Deleting an absent key
	// succeeds, but callers must still treat any returned error as a failed
	// delete requiring compensation.
	Delete(ctx context.Context, key string) error

	// Validate checks if a key exists and is accessible.
	// Returns (true, nil) if the key exists and is readable.
	// Returns (false, nil) if the key does not exist.
	// Returns (false, error) for permission or system errors.
	Validate(ctx context.Context, key string) (bool, error)
}
