package models

import "time"

// Category is a named grouping bucket for prompts. Categories are managed
// out-of-band and treated as read-only reference data by the explorer.
type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name" binding:"notblank"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the backend table name.
func (Category) TableName() string {
	return TableCategories
}
