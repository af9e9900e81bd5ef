package cleanup

import (
	"errors"
	"net/http"
)

// Domain errors for cleanup operations.
var (
	ErrTaskNotFound = errors.New("cleanup task not found")
	ErrInvalidTask  = errors.New("invalid cleanup task")
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTask), errors.Is(err, ErrInvalidLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
