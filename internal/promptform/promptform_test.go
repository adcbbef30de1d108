package promptform

import (
	"errors"
	"reflect"
	"testing"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/models"
	"promptdeck/internal/testutil"
	"promptdeck/internal/validator"
)

func TestOpen_CreateMode(t *testing.T) {
	s := Open(nil, Rules{Description: models.DescriptionRequired})

	if s.Editing() != nil {
		t.Error("expected create mode")
	}
	if s.Title() != TitleCreate {
		t.Errorf("expected title %q, got %q", TitleCreate, s.Title())
	}
	if s.Fields() != (Fields{}) {
		t.Errorf("expected blank fields, got %+v", s.Fields())
	}
}

func TestOpen_EditModeSeedsFields(t *testing.T) {
	p := models.Prompt{ID: 7, Title: "Refactor", Description: "Cleanup", PromptText: "Refactor this", CategoryID: 1}
	s := Open(&p, Rules{})

	if s.Title() != TitleEdit {
		t.Errorf("expected title %q, got %q", TitleEdit, s.Title())
	}
	want := Fields{Title: "Refactor", Description: "Cleanup", PromptText: "Refactor this", CategoryID: 1}
	if s.Fields() != want {
		t.Errorf("expected seeded fields %+v, got %+v", want, s.Fields())
	}

	// The session keeps its own copy of the prompt.
	p.Title = "Changed"
	if s.Editing().Title != "Refactor" {
		t.Error("session should not alias the caller's prompt")
	}
}

func TestSubmitState(t *testing.T) {
	s := Open(nil, Rules{})

	if !s.CanSubmit() || s.SubmitLabel() != LabelSave {
		t.Fatalf("expected idle session, label %q", s.SubmitLabel())
	}
	if !s.BeginSubmit() {
		t.Fatal("first BeginSubmit should succeed")
	}
	if s.CanSubmit() {
		t.Error("confirm control should be disabled while submitting")
	}
	if s.SubmitLabel() != LabelSaving {
		t.Errorf("expected busy label %q, got %q", LabelSaving, s.SubmitLabel())
	}
	if s.BeginSubmit() {
		t.Error("second BeginSubmit should be refused while busy")
	}

	s.EndSubmit()
	if !s.CanSubmit() || s.SubmitLabel() != LabelSave {
		t.Error("expected idle session after EndSubmit")
	}
}

func TestCancel(t *testing.T) {
	s := Open(nil, Rules{})
	s.SetFields(Fields{Title: "draft"})

	s.Cancel()

	if !s.Closed() {
		t.Error("expected closed session")
	}
	if s.Fields() != (Fields{}) {
		t.Errorf("expected fields discarded, got %+v", s.Fields())
	}
	if s.BeginSubmit() {
		t.Error("closed session must not submit")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		rules   Rules
		missing []string
	}{
		{
			name:    "empty title",
			fields:  Fields{PromptText: "text"},
			rules:   Rules{Description: models.DescriptionOptional},
			missing: []string{"title"},
		},
		{
			name:   "optional description",
			fields: Fields{Title: "t", PromptText: "p"},
			rules:  Rules{Description: models.DescriptionOptional},
		},
		{
			name:   "omitted description",
			fields: Fields{Title: "t", PromptText: "p"},
			rules:  Rules{Description: models.DescriptionOmitted},
		},
		{
			name:    "required description",
			fields:  Fields{Title: "t", PromptText: "p"},
			rules:   Rules{Description: models.DescriptionRequired},
			missing: []string{"description"},
		},
		{
			name:    "required category",
			fields:  Fields{Title: "t", Description: "d", PromptText: "p"},
			rules:   Rules{Description: models.DescriptionRequired, RequireCategory: true},
			missing: []string{"category_id"},
		},
		{
			name:    "everything missing",
			fields:  Fields{},
			rules:   Rules{Description: models.DescriptionRequired, RequireCategory: true},
			missing: []string{"title", "description", "prompt_text", "category_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fields, tt.rules)
			if tt.missing == nil {
				testutil.AssertNoError(t, err)
				return
			}

			testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
			var mf *validator.MissingFieldsError
			if !errors.As(err, &mf) {
				t.Fatalf("expected missing field list, got %v", err)
			}
			if !reflect.DeepEqual(mf.Fields, tt.missing) {
				t.Errorf("missing = %v, want %v", mf.Fields, tt.missing)
			}
		})
	}
}
