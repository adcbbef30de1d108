package validator

import (
	"errors"
	"reflect"
	"testing"
)

type draft struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	PromptText  string `json:"prompt_text" validate:"notblank"`
	CategoryID  int64  `json:"category_id" validate:"required"`
}

func TestCheckRequired(t *testing.T) {
	tests := []struct {
		name   string
		input  draft
		except []string
		want   []string
	}{
		{
			name:  "all present",
			input: draft{Title: "t", Description: "d", PromptText: "p", CategoryID: 1},
		},
		{
			name:  "blank strings count as missing",
			input: draft{Title: "   ", Description: "d", PromptText: "\n\t", CategoryID: 1},
			want:  []string{"title", "prompt_text"},
		},
		{
			name:  "zero category",
			input: draft{Title: "t", Description: "d", PromptText: "p"},
			want:  []string{"category_id"},
		},
		{
			name:   "excluded fields are skipped",
			input:  draft{Title: "t", PromptText: "p"},
			except: []string{"Description", "CategoryID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRequired(tt.input, tt.except...)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var missing *MissingFieldsError
			if !errors.As(err, &missing) {
				t.Fatalf("expected *MissingFieldsError, got %T: %v", err, err)
			}
			if !reflect.DeepEqual(missing.Fields, tt.want) {
				t.Errorf("missing fields = %v, want %v", missing.Fields, tt.want)
			}
		})
	}
}

func TestMissingFieldsError(t *testing.T) {
	err := &MissingFieldsError{Fields: []string{"title", "prompt_text"}}
	if got, want := err.Error(), "missing fields: title, prompt_text"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestMissingFields_NonValidationError(t *testing.T) {
	if got := MissingFields(errors.New("boom")); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
