package services

import (
	"context"

	"promptdeck/internal/backend"
	"promptdeck/internal/models"
)

// libraryService reads and writes the prompt library through a backend client.
type libraryService struct {
	client backend.Client
	mode   models.DescriptionMode
}

// NewLibraryService creates a new LibraryServicer. mode controls whether the
// description column is fetched and written.
func NewLibraryService(client backend.Client, mode models.DescriptionMode) LibraryServicer {
	return &libraryService{client: client, mode: mode}
}

// FetchCategories returns every category ordered by name.
func (s *libraryService) FetchCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.client.Select(ctx, backend.Query{
		Table: models.TableCategories,
		Order: []backend.Order{backend.Asc("name")},
	}, &categories)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FetchPrompts returns every prompt in backend order, projected to the
// columns the library displays.
func (s *libraryService) FetchPrompts(ctx context.Context) ([]models.Prompt, error) {
	prompts := []models.Prompt{}
	err := s.client.Select(ctx, backend.Query{
		Table:   models.TablePrompts,
		Columns: models.PromptColumns(s.mode),
	}, &prompts)
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// CreatePrompt inserts draft and returns the persisted row with its id.
func (s *libraryService) CreatePrompt(ctx context.Context, draft models.PromptDraft) (*models.Prompt, error) {
	if s.mode == models.DescriptionOmitted {
		draft.Description = ""
	}

	var created models.Prompt
	if err := s.client.Insert(ctx, models.TablePrompts, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePrompt applies patch to the prompt with the given id.
func (s *libraryService) UpdatePrompt(ctx context.Context, id int64, patch models.PromptPatch) (*models.Prompt, error) {
	var updated models.Prompt
	err := s.client.Update(ctx, models.TablePrompts, patch.Columns(s.mode),
		[]backend.Filter{backend.Eq("id", id)}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePrompt removes the prompt with the given id.
func (s *libraryService) DeletePrompt(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, models.TablePrompts, []backend.Filter{backend.Eq("id", id)})
}
