// Package images coordinates the lifecycle of entity images across the
// metadata store and the blob store. The two stores cannot share a
// transaction, so operations that span both compensate through the cleanup
// queue when a partial failure leaves them out of sync.
package images

import (
	"errors"
	"net/http"
)

// Domain errors for image operations.
var (
	ErrNotFound       = errors.New("image not found")
	ErrEntityNotFound = errors.New("entity not found")
	ErrInvalidFile    = errors.New("invalid file")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrInvalidOrder   = errors.New("invalid image order")
	ErrDuplicate      = errors.New("image already exists")
	ErrStorageFailure = errors.New("storage failure")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
