// Package promptform implements the bounded create/edit session for a single
// prompt: seeding, required-field validation and the busy state while a save
// is in flight.
package promptform

import (
	"sync"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/models"
	"promptdeck/internal/validator"
)

// Dialog titles and submit labels.
const (
	TitleEdit   = "Edit Prompt"
	TitleCreate = "Create New Prompt"
	LabelSave   = "Save"
	LabelSaving = "Saving..."
)

// Fields are the user-editable values of a prompt form.
type Fields struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	PromptText  string `json:"prompt_text" validate:"notblank"`
	CategoryID  int64  `json:"category_id" validate:"required"`
}

// Rules select which optional fields are required.
type Rules struct {
	Description     models.DescriptionMode
	RequireCategory bool
}

// Validate checks f against r. Title and prompt text are always required.
// The returned error is a VALIDATION_FAILED AppError wrapping the missing
// field list.
func Validate(f Fields, r Rules) error {
	var except []string
	if r.Description != models.DescriptionRequired {
		except = append(except, "Description")
	}
	if !r.RequireCategory {
		except = append(except, "CategoryID")
	}

	if err := validator.CheckRequired(f, except...); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, err)
	}
	return nil
}

// FieldsFrom seeds form fields from an existing prompt.
func FieldsFrom(p models.Prompt) Fields {
	return Fields{
		Title:       p.Title,
		Description: p.Description,
		PromptText:  p.PromptText,
		CategoryID:  p.CategoryID,
	}
}

// Session is one open form. A nil editing prompt means create mode.
type Session struct {
	mu         sync.Mutex
	editing    *models.Prompt
	rules      Rules
	fields     Fields
	submitting bool
	closed     bool
}

// Open starts a session seeded from editing, or blank when editing is nil.
func Open(editing *models.Prompt, rules Rules) *Session {
	s := &Session{rules: rules}
	if editing != nil {
		p := *editing
		s.editing = &p
		s.fields = FieldsFrom(p)
	}
	return s
}

// Editing returns a copy of the prompt being edited, or nil in create mode.
func (s *Session) Editing() *models.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return nil
	}
	p := *s.editing
	return &p
}

// Title is the dialog title for the session's mode.
func (s *Session) Title() string {
	if s.Editing() != nil {
		return TitleEdit
	}
	return TitleCreate
}

// Fields returns the current field values.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// SetFields replaces the field values.
func (s *Session) SetFields(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
}

// Rules returns the validation rules the session was opened with.
func (s *Session) Rules() Rules {
	return s.rules
}

// Validate checks the current fields.
func (s *Session) Validate() error {
	return Validate(s.Fields(), s.rules)
}

// BeginSubmit marks the session busy. It reports false when a submit is
// already running or the session is closed.
func (s *Session) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting || s.closed {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit clears the busy flag.
func (s *Session) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// Submitting reports whether a save is in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// CanSubmit reports whether the confirm control is enabled.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.submitting && !s.closed
}

// SubmitLabel is the confirm control's label.
func (s *Session) SubmitLabel() string {
	if s.Submitting() {
		return LabelSaving
	}
	return LabelSave
}

// Cancel discards the fields and closes the session without any backend call.
func (s *Session) Cancel() {
	s.Close()
}

// Close ends the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.fields = Fields{}
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
