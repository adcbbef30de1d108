package explorer

import (
	"context"
	"sync"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/models"
	"promptdeck/internal/notify"
	"promptdeck/internal/promptform"
)

// Delete confirmation texts.
const (
	ConfirmDeleteTitle       = "Are you sure?"
	ConfirmDeleteDescription = "This action cannot be undone. This will permanently delete this prompt."
)

// OpenCreateForm starts a blank form. Submitting it creates a prompt in the
// selected category.
func (e *Explorer) OpenCreateForm() *promptform.Session {
	return e.openForm(nil)
}

// OpenEditForm starts a form seeded from p.
func (e *Explorer) OpenEditForm(p models.Prompt) *promptform.Session {
	return e.openForm(&p)
}

func (e *Explorer) openForm(editing *models.Prompt) *promptform.Session {
	s := promptform.Open(editing, promptform.Rules{Description: e.mode})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.form != nil {
		e.form.Close()
	}
	e.form = s
	return s
}

// Form returns the open form session, or nil.
func (e *Explorer) Form() *promptform.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// CancelForm closes the open form without any backend call.
func (e *Explorer) CancelForm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.form != nil {
		e.form.Cancel()
		e.form = nil
	}
}

// SubmitForm validates fields and saves them through the open form. In edit
// mode the prompt is updated and replaced in place; in create mode it is
// created in the selected category and appended. Create mode without a
// selected category closes the form without saving. On a backend error the
// collection is untouched and the form stays open.
func (e *Explorer) SubmitForm(ctx context.Context, fields promptform.Fields) error {
	e.mu.Lock()
	if e.phase != Ready {
		e.mu.Unlock()
		return apperrors.ErrNotReady
	}
	s := e.form
	if s == nil {
		e.mu.Unlock()
		return apperrors.ErrFormNotOpen
	}

	if s.Submitting() {
		e.mu.Unlock()
		return apperrors.ErrOperationInProgress
	}
	if err := promptform.Validate(fields, s.Rules()); err != nil {
		e.mu.Unlock()
		e.notifier.Notify(notify.Error("Missing fields", apperrors.ErrValidation.Message))
		return err
	}

	editing := s.Editing()
	var categoryID int64
	if editing == nil {
		lv, ok := e.view.(ListView)
		if !ok {
			s.Close()
			e.form = nil
			e.mu.Unlock()
			return nil
		}
		categoryID = lv.CategoryID
	} else if _, busy := e.inFlight[editing.ID]; busy {
		e.mu.Unlock()
		return apperrors.ErrOperationInProgress
	}

	if !s.BeginSubmit() {
		e.mu.Unlock()
		return apperrors.ErrOperationInProgress
	}
	s.SetFields(fields)
	if editing != nil {
		e.inFlight[editing.ID] = struct{}{}
	}
	e.pending++
	e.mu.Unlock()

	var (
		saved *models.Prompt
		err   error
	)
	if editing != nil {
		saved, err = e.library.UpdatePrompt(ctx, editing.ID, models.PromptPatch{
			Title:       &fields.Title,
			Description: &fields.Description,
			PromptText:  &fields.PromptText,
		})
	} else {
		saved, err = e.library.CreatePrompt(ctx, models.PromptDraft{
			Title:       fields.Title,
			Description: fields.Description,
			PromptText:  fields.PromptText,
			CategoryID:  categoryID,
		})
	}

	e.mu.Lock()
	s.EndSubmit()
	e.pending--
	if editing != nil {
		delete(e.inFlight, editing.ID)
	}
	if err != nil {
		e.mu.Unlock()
		e.log.Warnw("saving prompt failed", "error", err)
		e.notifier.Notify(notify.Error("Save failed", err.Error()))
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}

	description := "Prompt created successfully."
	if editing != nil {
		description = "Prompt updated successfully."
		if i := e.indexOf(saved.ID); i >= 0 {
			e.prompts[i] = *saved
		}
	} else if i := e.indexOf(saved.ID); i >= 0 {
		e.prompts[i] = *saved
	} else {
		e.prompts = append(e.prompts, *saved)
	}
	s.Close()
	if e.form == s {
		e.form = nil
	}
	e.mu.Unlock()

	e.notifier.Notify(notify.Info("Success", description))
	return nil
}

// DeleteConfirmation is the pending second step of a delete. Only Confirm
// calls the backend.
type DeleteConfirmation struct {
	e      *Explorer
	prompt models.Prompt

	mu   sync.Mutex
	done bool
}

// RequestDelete starts the two-step delete of a prompt.
func (e *Explorer) RequestDelete(id int64) (*DeleteConfirmation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != Ready {
		return nil, apperrors.ErrNotReady
	}
	i := e.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrPromptNotFound
	}
	return &DeleteConfirmation{e: e, prompt: e.prompts[i]}, nil
}

// Prompt returns the prompt awaiting deletion.
func (d *DeleteConfirmation) Prompt() models.Prompt { return d.prompt }

// Title is the confirmation heading.
func (d *DeleteConfirmation) Title() string { return ConfirmDeleteTitle }

// Description is the confirmation body.
func (d *DeleteConfirmation) Description() string { return ConfirmDeleteDescription }

// Confirm deletes the prompt. A confirmation can be used once.
func (d *DeleteConfirmation) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return apperrors.ErrConfirmationClosed
	}
	d.done = true
	d.mu.Unlock()

	return d.e.deletePrompt(ctx, d.prompt.ID)
}

// Cancel discards the confirmation.
func (d *DeleteConfirmation) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = true
}

func (e *Explorer) deletePrompt(ctx context.Context, id int64) error {
	e.mu.Lock()
	if e.phase != Ready {
		e.mu.Unlock()
		return apperrors.ErrNotReady
	}
	if _, busy := e.inFlight[id]; busy {
		e.mu.Unlock()
		return apperrors.ErrOperationInProgress
	}
	e.inFlight[id] = struct{}{}
	e.pending++
	e.mu.Unlock()

	err := e.library.DeletePrompt(ctx, id)

	e.mu.Lock()
	delete(e.inFlight, id)
	e.pending--
	if err != nil {
		e.mu.Unlock()
		e.log.Warnw("deleting prompt failed", "id", id, "error", err)
		e.notifier.Notify(notify.Error("Delete failed", err.Error()))
		return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
	}

	kept := make([]models.Prompt, 0, len(e.prompts))
	for _, p := range e.prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	e.prompts = kept
	e.mu.Unlock()

	e.notifier.Notify(notify.Info("Success", "Prompt deleted successfully."))
	return nil
}
