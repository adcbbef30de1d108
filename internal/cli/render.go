package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"promptdeck/internal/explorer"
	"promptdeck/internal/models"
	"promptdeck/internal/search"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printTiles(w io.Writer, tiles []explorer.Tile) {
	if len(tiles) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCATEGORY\tPROMPTS\tICON")
	for _, t := range tiles {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", t.Category.ID, t.Category.Name, t.PromptCount, t.Icon)
	}
	_ = tw.Flush()
}

func printPrompts(w io.Writer, prompts []models.Prompt) {
	if len(prompts) == 0 {
		fmt.Fprintln(w, "No prompts found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tPROMPT")
	for _, p := range prompts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Title, abbreviate(p.PromptText, 60))
	}
	_ = tw.Flush()
}

func printPrompt(w io.Writer, p models.Prompt, category string) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
	if category != "" {
		fmt.Fprintf(w, "Category: %s\n", category)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "%s\n", p.Description)
	}
	fmt.Fprintf(w, "\n%s\n", p.PromptText)
}

func printResults(w io.Writer, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\tin %s\n", r.Prompt.ID, r.Prompt.Title, r.CategoryName)
	}
	_ = tw.Flush()
}
