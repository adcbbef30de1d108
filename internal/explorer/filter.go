package explorer

import (
	"strings"

	"promptdeck/internal/models"
)

// Matches reports whether p's title or prompt text contains query,
// ignoring case. An empty query matches everything.
func Matches(p models.Prompt, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.PromptText), q)
}

// FilterPrompts returns the prompts in categoryID that match query, in
// collection order.
func FilterPrompts(prompts []models.Prompt, categoryID int64, query string) []models.Prompt {
	out := []models.Prompt{}
	for _, p := range prompts {
		if p.CategoryID == categoryID && Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// CountByCategory counts prompts per category id.
func CountByCategory(prompts []models.Prompt) map[int64]int {
	counts := make(map[int64]int)
	for _, p := range prompts {
		counts[p.CategoryID]++
	}
	return counts
}
