package query

import "fmt"

// Match selects the comparison semantics for text search conditions.
type Match string

// Match mode constants.
const (
	// MatchPartial matches case-insensitive substring containment.
	MatchPartial Match = "partial"

	// MatchPrefix matches a case-insensitive "starts with" comparison.
	MatchPrefix Match = "prefix"

	// MatchExact matches case-insensitive full equality.
	MatchExact Match = "exact"
)

// ParseMatch validates a match mode string.
func ParseMatch(s string) (Match, error) {
	switch Match(s) {
	case MatchPartial, MatchPrefix, MatchExact:
		return Match(s), nil
	default:
		return "", fmt.Errorf("invalid match mode: %q (must be partial, prefix, or exact)", s)
	}
}

// Condition returns a clause template comparing col against one "$%d" bound
// parameter under the match semantics. LIKE patterns are deliberately avoided
// so the search value needs no wildcard escaping.
func (m Match) Condition(col string) string {
	switch m {
	case MatchExact:
		return fmt.Sprintf("lower(%s) = lower($%%d)", col)
	case MatchPrefix:
		return fmt.Sprintf("starts_with(lower(%s), lower($%%d))", col)
	default:
		return fmt.Sprintf("position(lower($%%d) in lower(%s)) > 0", col)
	}
}
