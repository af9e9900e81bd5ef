package entities_test

import (
	"errors"
	"testing"

	"github.com/curiolist/curio/internal/entities"
)

func TestCreateCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     entities.CreateCommand
		wantErr bool
	}{
		{"valid", entities.CreateCommand{KindID: 1, Name: "Dune"}, false},
		{"name trimmed", entities.CreateCommand{KindID: 1, Name: "  Dune  "}, false},
		{"empty name", entities.CreateCommand{KindID: 1}, true},
		{"whitespace name", entities.CreateCommand{KindID: 1, Name: "   "}, true},
		{"missing kind", entities.CreateCommand{Name: "Dune"}, true},
		{"negative kind", entities.CreateCommand{KindID: -1, Name: "Dune"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()

			if tt.wantErr {
				if !errors.Is(err, entities.ErrInvalidInput) {
					t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if tt.cmd.Name != "Dune" {
				t.Errorf("Name = %q, want trimmed %q", tt.cmd.Name, "Dune")
			}
		})
	}
}

func TestUpdateCommand_Validate(t *testing.T) {
	cmd := entities.UpdateCommand{Name: "  The Expanse "}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cmd.Name != "The Expanse" {
		t.Errorf("Name = %q, want trimmed", cmd.Name)
	}

	empty := entities.UpdateCommand{Name: " "}
	if err := empty.Validate(); !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
	}
}
