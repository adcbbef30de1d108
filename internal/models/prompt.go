package models

import "time"

// Backend table names.
const (
	TableCategories = "categories"
	TablePrompts    = "prompts"
)

// Prompt is a titled, persisted block of text belonging to one category.
type Prompt struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title" binding:"notblank"`
	Description string    `gorm:"not null;default:''" json:"description"`
	PromptText  string    `gorm:"column:prompt_text;not null" json:"prompt_text" binding:"notblank"`
	CategoryID  int64     `gorm:"not null;index" json:"category_id" binding:"required"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName pins the backend table name.
func (Prompt) TableName() string {
	return TablePrompts
}

// PromptDraft is the insert payload for a new prompt. The backend assigns id
// and created_at.
type PromptDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PromptText  string `json:"prompt_text"`
	CategoryID  int64  `json:"category_id"`
}

// PromptPatch carries a partial update. Nil fields are left untouched.
type PromptPatch struct {
	Title       *string
	Description *string
	PromptText  *string
}

// Columns converts the patch into a column/value map for the backend. The
// description column is dropped when the schema does not carry it.
func (p PromptPatch) Columns(mode DescriptionMode) map[string]any {
	cols := make(map[string]any)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil && mode != DescriptionOmitted {
		cols["description"] = *p.Description
	}
	if p.PromptText != nil {
		cols["prompt_text"] = *p.PromptText
	}
	return cols
}

// DescriptionMode describes how the prompts table treats the description
// column across deployments.
type DescriptionMode string

const (
	DescriptionOmitted  DescriptionMode = "omitted"
	DescriptionOptional DescriptionMode = "optional"
	DescriptionRequired DescriptionMode = "required"
)

// ParseDescriptionMode parses a configuration value. The empty string maps to
// DescriptionRequired.
func ParseDescriptionMode(s string) (DescriptionMode, bool) {
	switch DescriptionMode(s) {
	case "":
		return DescriptionRequired, true
	case DescriptionOmitted, DescriptionOptional, DescriptionRequired:
		return DescriptionMode(s), true
	}
	return "", false
}

// PromptColumns returns the fetch projection for the given mode.
func PromptColumns(mode DescriptionMode) []string {
	cols := []string{"id", "title", "prompt_text", "category_id"}
	if mode != DescriptionOmitted {
		cols = append(cols, "description")
	}
	return cols
}
