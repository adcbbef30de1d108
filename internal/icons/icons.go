// Package icons maps category names to presentation glyph keys.
package icons

// Key names a glyph in the front end's icon set.
type Key string

// Default is used for categories without a dedicated glyph.
const Default Key = "layers"

var byCategory = map[string]Key{
	"Business & Marketing":  "briefcase",
	"AI & Machine Learning": "brain",
	"Content Creation":      "wand-sparkles",
	"Copywriting":           "pen-line",
	"Education & Learning":  "book-open",
	"Productivity":          "rocket",
	"Health & Fitness":      "dumbbell",
	"Technology":            "search-code",
	"Art":                   "palette",
	"Blogging":              "pen-tool",
	"Business":              "building",
	"ChatGPT":               "bot-message-square",
	"Coding":                "code",
	"Education":             "book",
	"Finance":               "briefcase",
	"Health":                "heart",
	"Marketing":             "shopping-cart",
	"Midjourney":            "gamepad-2",
	"Motivation":            "lightbulb",
	"Podcast":               "mic",
	"Prompt Engineering":    "pencil",
	"Relationships":         "users",
	"Research":              "book",
	"Storytelling":          "pen-tool",
	"UI/UX":                 "palette",
	"YouTube":               "youtube",
}

// For returns the glyph for a category name, or Default.
func For(name string) Key {
	if k, ok := byCategory[name]; ok {
		return k
	}
	return Default
}
