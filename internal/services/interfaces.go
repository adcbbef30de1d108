package services

import (
	"context"

	"promptdeck/internal/models"
)

// LibraryServicer defines the data access contract for the prompt library.
// Each method performs exactly one backend operation and returns the backend's
// error unmodified.
type LibraryServicer interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchPrompts(ctx context.Context) ([]models.Prompt, error)
	CreatePrompt(ctx context.Context, draft models.PromptDraft) (*models.Prompt, error)
	UpdatePrompt(ctx context.Context, id int64, patch models.PromptPatch) (*models.Prompt, error)
	DeletePrompt(ctx context.Context, id int64) error
}
