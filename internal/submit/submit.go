// Package submit implements the standalone "submit a prompt" flow: a
// category picker plus a form where every field is required.
package submit

import (
	"context"
	"sync"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/models"
	"promptdeck/internal/notify"
	"promptdeck/internal/promptform"
	"promptdeck/internal/services"
)

// Submit button labels.
const (
	LabelSubmit     = "Submit Prompt"
	LabelSubmitting = "Submitting..."
)

// Flow holds the submit form state.
type Flow struct {
	library  services.LibraryServicer
	notifier notify.Notifier
	rules    promptform.Rules

	mu         sync.Mutex
	categories []models.Category
	fields     promptform.Fields
	submitting bool
}

// New creates a Flow. Description is required unless the schema omits it.
func New(library services.LibraryServicer, n notify.Notifier, mode models.DescriptionMode) *Flow {
	if n == nil {
		n = notify.Discard
	}
	rules := promptform.Rules{Description: models.DescriptionRequired, RequireCategory: true}
	if mode == models.DescriptionOmitted {
		rules.Description = models.DescriptionOmitted
	}
	return &Flow{library: library, notifier: n, rules: rules, categories: []models.Category{}}
}

// LoadCategories fetches the picker's categories, ordered by name.
func (f *Flow) LoadCategories(ctx context.Context) error {
	categories, err := f.library.FetchCategories(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLoadFailed, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = categories
	return nil
}

// Categories returns the picker's options.
func (f *Flow) Categories() []models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Category{}, f.categories...)
}

// Fields returns the current form values.
func (f *Flow) Fields() promptform.Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// SetFields replaces the form values.
func (f *Flow) SetFields(fields promptform.Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// SubmitLabel is the submit button's label.
func (f *Flow) SubmitLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return LabelSubmitting
	}
	return LabelSubmit
}

// Submit validates fields and inserts a new prompt. The form is reset after
// a successful insert.
func (f *Flow) Submit(ctx context.Context, fields promptform.Fields) (*models.Prompt, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, apperrors.ErrOperationInProgress
	}
	f.fields = fields
	if err := promptform.Validate(fields, f.rules); err != nil {
		f.mu.Unlock()
		f.notifier.Notify(notify.Error("Missing fields", apperrors.ErrValidation.Message))
		return nil, err
	}
	f.submitting = true
	f.mu.Unlock()

	created, err := f.library.CreatePrompt(ctx, models.PromptDraft{
		Title:       fields.Title,
		Description: fields.Description,
		PromptText:  fields.PromptText,
		CategoryID:  fields.CategoryID,
	})

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.mu.Unlock()
		f.notifier.Notify(notify.Error("Submission failed", err.Error()))
		return nil, apperrors.Wrap(apperrors.ErrSubmitFailed, err)
	}
	f.fields = promptform.Fields{}
	f.mu.Unlock()

	f.notifier.Notify(notify.Info("Prompt submitted!", "Thank you for your contribution. Your prompt is now part of the library."))
	return created, nil
}
