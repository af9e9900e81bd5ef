package tags_test

import (
	"errors"
	"testing"

	"github.com/curiolist/curio/internal/tags"
)

func TestCreateCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"lowercase passthrough", "scifi", "scifi", false},
		{"uppercase normalized", "SciFi", "scifi", false},
		{"whitespace trimmed", "  vintage  ", "vintage", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tags.CreateCommand{Name: tt.input}
			err := cmd.Validate()

			if tt.wantErr {
				if !errors.Is(err, tags.ErrInvalidInput) {
					t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if cmd.Name != tt.want {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.want)
			}
		})
	}
}
