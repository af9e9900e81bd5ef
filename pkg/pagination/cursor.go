// Package pagination provides keyset (cursor) pagination primitives: an
// opaque cursor codec over the descending (createdAt, id) ordering, page
// results, and limit configuration.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidCursor indicates a cursor string that cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// cursorSeparator joins the two halves of an encoded cursor. Both halves are
// percent-escaped, so the separator cannot occur inside them.
const cursorSeparator = ":"

// Cursor describes a position in the descending (createdAt, id) ordering.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode serializes the cursor as "<createdAt>:<id>" with each half
// percent-escaped.
func (c Cursor) Encode() string {
	return url.QueryEscape(c.CreatedAt.Format(time.RFC3339Nano)) +
		cursorSeparator +
		url.QueryEscape(c.ID)
}

// DecodeCursor parses an encoded cursor. A cursor missing the separator or
// containing a non-decodable half yields ErrInvalidCursor.
func DecodeCursor(s string) (Cursor, error) {
	idx := strings.Index(s, cursorSeparator)
	if idx < 0 {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	createdPart, err := url.QueryUnescape(s[:idx])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	idPart, err := url.QueryUnescape(s[idx+1:])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdPart)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if idPart == "" {
		return Cursor{}, fmt.Errorf("%w: empty id", ErrInvalidCursor)
	}

	return Cursor{CreatedAt: createdAt, ID: idPart}, nil
}
