// Package tags provides tag management and entity tag assignment.
package tags

import (
	"fmt"
	"strings"
)

// Tag labels entities for search and browsing. Names are unique.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateCommand carries the fields for creating a tag.
type CreateCommand struct {
	Name string `json:"name"`
}

// Validate checks the command and normalizes the tag name.
func (c *CreateCommand) Validate() error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return nil
}
