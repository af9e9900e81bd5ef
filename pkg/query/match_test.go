package query_test

import (
	"testing"

	"github.com/curiolist/curio/pkg/query"
)

func TestParseMatch(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    query.Match
		wantErr bool
	}{
		{"partial", "partial", query.MatchPartial, false},
		{"prefix", "prefix", query.MatchPrefix, false},
		{"exact", "exact", query.MatchExact, false},
		{"empty", "", "", true},
		{"unknown", "fuzzy", "", true},
		{"uppercase rejected", "EXACT", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := query.ParseMatch(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMatch(%q) error = nil, want error", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseMatch(%q) error = %v, want nil", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMatch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatch_Condition(t *testing.T) {
	tests := []struct {
		name  string
		match query.Match
		want  string
	}{
		{"exact", query.MatchExact, "lower(e.name) = lower($%d)"},
		{"prefix", query.MatchPrefix, "starts_with(lower(e.name), lower($%d))"},
		{"partial", query.MatchPartial, "position(lower($%d) in lower(e.name)) > 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.Condition("e.name"); got != tt.want {
				t.Errorf("Condition() = %q, want %q", got, tt.want)
			}
		})
	}
}
