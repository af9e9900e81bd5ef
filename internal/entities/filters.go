package entities

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/curiolist/curio/pkg/query"
)

// WishlistMode controls how wishlist entities participate in search results.
type WishlistMode string

// Wishlist filter modes.
const (
	WishlistInclude WishlistMode = "include"
	WishlistExclude WishlistMode = "exclude"
	WishlistOnly    WishlistMode = "only"
)

// MatchField names a searchable entity field.
type MatchField string

// Searchable fields.
const (
	FieldTitle MatchField = "title"
	FieldBody  MatchField = "body"
	FieldTags  MatchField = "tags"
)

// tagMatchClause matches entities through their attached tag names. The inner
// comparison template is substituted per match mode.
const tagMatchClause = "EXISTS (SELECT 1 FROM entity_tags et JOIN tags t ON t.id = et.tag_id WHERE et.entity_id = e.id AND %s)"

// Filters defines the search criteria for querying entities.
type Filters struct {
	KindID   *int
	Wishlist WishlistMode
	Query    *string
	Match    query.Match
	Fields   []MatchField
}

// FiltersFromQuery extracts entity filters from URL query parameters.
// Unrecognized wishlist modes, match modes, or fields are invalid input.
func FiltersFromQuery(values url.Values) (Filters, error) {
	f := Filters{
		Wishlist: WishlistInclude,
		Match:    query.MatchPartial,
		Fields:   []MatchField{FieldTitle},
	}

	if kind := values.Get("kind_id"); kind != "" {
		id, err := strconv.Atoi(kind)
		if err != nil {
			return f, fmt.Errorf("%w: kind_id %q", ErrInvalidInput, kind)
		}
		f.KindID = &id
	}

	if mode := values.Get("wishlist"); mode != "" {
		switch WishlistMode(mode) {
		case WishlistInclude, WishlistExclude, WishlistOnly:
			f.Wishlist = WishlistMode(mode)
		default:
			return f, fmt.Errorf("%w: wishlist mode %q", ErrInvalidInput, mode)
		}
	}

	if q := values.Get("q"); q != "" {
		f.Query = &q
	}

	if mode := values.Get("match"); mode != "" {
		parsed, err := query.ParseMatch(mode)
		if err != nil {
			return f, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		f.Match = parsed
	}

	if raw := values.Get("fields"); raw != "" {
		fields, err := parseMatchFields(raw)
		if err != nil {
			return f, err
		}
		f.Fields = fields
	}

	return f, nil
}

// Apply adds the filter conditions to a query builder: kind and wishlist
// filters AND-composed with an OR across the selected text fields. The search
// value is only ever bound as a parameter.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.KindID != nil {
		b.WhereEquals("KindID", *f.KindID)
	}

	switch f.Wishlist {
	case WishlistExclude:
		b.WhereEquals("Wishlist", false)
	case WishlistOnly:
		b.WhereEquals("Wishlist", true)
	}

	if f.Query != nil && *f.Query != "" && len(f.Fields) > 0 {
		clauses := make([]string, 0, len(f.Fields))
		args := make([]any, 0, len(f.Fields))

		for _, field := range f.Fields {
			switch field {
			case FieldTitle:
				clauses = append(clauses, f.Match.Condition("e.name"))
			case FieldBody:
				clauses = append(clauses, f.Match.Condition("e.description"))
			case FieldTags:
				clauses = append(clauses, fmt.Sprintf(tagMatchClause, f.Match.Condition("t.name")))
			}
			args = append(args, *f.Query)
		}

		b.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	return b
}

func parseMatchFields(raw string) ([]MatchField, error) {
	seen := make(map[MatchField]bool)
	var fields []MatchField

	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := MatchField(part)
		switch field {
		case FieldTitle, FieldBody, FieldTags:
		default:
			return nil, fmt.Errorf("%w: search field %q", ErrInvalidInput, part)
		}

		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no valid search fields", ErrInvalidInput)
	}

	return fields, nil
}
