package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity is a cataloged item: something owned, or wished for when the
// wishlist flag is set.
type Entity struct {
	ID          uuid.UUID `json:"id"`
	KindID      int       `json:"kind_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Wishlist    bool      `json:"wishlist"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Kind classifies entities. Kinds are seeded by migration and read-only at
// runtime.
type Kind struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateCommand carries the fields for creating an entity.
type CreateCommand struct {
	KindID      int     `json:"kind_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Wishlist    bool    `json:"wishlist"`
}

// Validate checks the command and normalizes its name.
func (c *CreateCommand) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if c.KindID < 1 {
		return fmt.Errorf("%w: kind_id required", ErrInvalidInput)
	}
	return nil
}

// UpdateCommand carries the mutable fields of an entity.
type UpdateCommand struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Wishlist    bool    `json:"wishlist"`
}

// Validate checks the command and normalizes its name.
func (c *UpdateCommand) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return nil
}
