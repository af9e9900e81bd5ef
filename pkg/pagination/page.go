package pagination

// Page holds one page of data with keyset pagination metadata. NextCursor is
// set only when more rows exist past this page.
type Page[T any] struct {
	Items      []T     `json:"items"`
	Limit      int     `json:"limit"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor,omitempty"`
	Total      int     `json:"total"`
}

// NewPage builds a Page from rows fetched with limit+1, trimming the probe
// row and deriving the next cursor from the last retained item.
func NewPage[T any](rows []T, limit, total int, cursorFor func(T) Cursor) Page[T] {
	page := Page[T]{
		Limit: limit,
		Total: total,
	}

	if len(rows) > limit {
		page.HasMore = true
		rows = rows[:limit]
	}

	if rows == nil {
		rows = []T{}
	}
	page.Items = rows

	if page.HasMore && len(rows) > 0 {
		cursor := cursorFor(rows[len(rows)-1]).Encode()
		page.NextCursor = &cursor
	}

	return page
}

// ClampLimit normalizes a requested limit against the configuration: values
// below 1 take the default, values above the maximum are capped.
func ClampLimit(limit int, cfg Config) int {
	if limit < 1 {
		return cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}
	return limit
}
