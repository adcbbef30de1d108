package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"promptdeck/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestPrompt creates a prompt in the given category with unique text.
func CreateTestPrompt(t *testing.T, db *gorm.DB, categoryID int64) *models.Prompt {
	t.Helper()
	n := nextID()
	return CreateTestPromptWith(t, db, &models.Prompt{
		Title:       fmt.Sprintf("Prompt %d", n),
		Description: "A test prompt",
		PromptText:  fmt.Sprintf("Write test number %d", n),
		CategoryID:  categoryID,
	})
}

// CreateTestPromptWith persists p as given.
func CreateTestPromptWith(t *testing.T, db *gorm.DB, p *models.Prompt) *models.Prompt {
	t.Helper()

	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test prompt: %v", err)
	}
	return p
}

// SeedScenario creates the Coding/Art library: categories Coding and Art and a
// single "Refactor" prompt in Coding.
func SeedScenario(t *testing.T, db *gorm.DB) (coding, art *models.Category, refactor *models.Prompt) {
	t.Helper()

	coding = CreateTestCategoryWithName(t, db, "Coding")
	art = CreateTestCategoryWithName(t, db, "Art")
	refactor = CreateTestPromptWith(t, db, &models.Prompt{
		Title:      "Refactor",
		PromptText: "Refactor this function",
		CategoryID: coding.ID,
	})
	return coding, art, refactor
}
