package explorer

import (
	"testing"

	"promptdeck/internal/models"
)

func TestMatches(t *testing.T) {
	p := models.Prompt{Title: "Refactor", PromptText: "Refactor this function", Description: "secret"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"refactor", true},
		{"FUNCTION", true},
		{"this func", true},
		{"secret", false},
		{"zzz", false},
	}
	for _, tt := range tests {
		if got := Matches(p, tt.query); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestCountByCategory(t *testing.T) {
	counts := CountByCategory([]models.Prompt{{CategoryID: 1}, {CategoryID: 1}, {CategoryID: 3}})
	if counts[1] != 2 || counts[3] != 1 || counts[2] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestFilterPrompts_EmptyIsNonNil(t *testing.T) {
	if got := FilterPrompts(nil, 1, ""); got == nil {
		t.Error("expected a non-nil empty slice")
	}
}
