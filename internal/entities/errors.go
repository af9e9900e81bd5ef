// Package entities provides the catalog's entity domain: CRUD, symmetric
// relations, and the cursor-paginated search-filter engine.
package entities

import (
	"errors"
	"net/http"

	"github.com/curiolist/curio/pkg/pagination"
)

// Domain errors for entity operations.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrKindNotFound = errors.New("kind not found")
	ErrDuplicate    = errors.New("entity name already exists for this kind")
	ErrInvalidInput = errors.New("invalid input")

	ErrRelationNotFound  = errors.New("relation not found")
	ErrRelationDuplicate = errors.New("relation already exists")
	ErrSelfRelation      = errors.New("entity cannot relate to itself")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrKindNotFound), errors.Is(err, ErrRelationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrRelationDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrSelfRelation), errors.Is(err, pagination.ErrInvalidCursor):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
