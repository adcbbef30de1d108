// Package search implements the library-wide search overlay. It fetches its
// own copy of the library each time it opens and matches a query against
// every prompt regardless of category.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/models"
	"promptdeck/internal/services"
)

// Uncategorized labels prompts whose category is unknown.
const Uncategorized = "Uncategorized"

// ErrStale is returned by an Open whose fetch finished after the overlay was
// closed or reopened. Its results are discarded.
var ErrStale = errors.New("search: results arrived after the overlay was closed or reopened")

// Result is one search hit.
type Result struct {
	Prompt       models.Prompt
	CategoryName string
}

// Key is the composite text a query is matched against.
func Key(p models.Prompt) string {
	return p.Title + " " + p.PromptText
}

// Overlay is the command-palette search.
type Overlay struct {
	library services.LibraryServicer

	mu         sync.Mutex
	open       bool
	loading    bool
	gen        uint64
	err        error
	prompts    []models.Prompt
	categories map[int64]string
	selected   *models.Prompt
}

// New creates a closed overlay.
func New(library services.LibraryServicer) *Overlay {
	return &Overlay{library: library}
}

// Open shows the overlay and fetches prompts and categories fresh.
func (o *Overlay) Open(ctx context.Context) error {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	o.open = true
	o.loading = true
	o.err = nil
	o.prompts = nil
	o.categories = nil
	o.mu.Unlock()

	var (
		prompts    []models.Prompt
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prompts, err = o.library.FetchPrompts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = o.library.FetchCategories(gctx)
		return err
	})
	err := g.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return ErrStale
	}
	o.loading = false
	if err != nil {
		o.err = apperrors.Wrap(apperrors.ErrLoadFailed, err)
		return o.err
	}

	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	o.prompts = prompts
	o.categories = names
	return nil
}

// Close hides the overlay and drops its results. A fetch still in flight is
// discarded when it completes.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.close()
}

func (o *Overlay) close() {
	o.gen++
	o.open = false
	o.loading = false
	o.err = nil
	o.prompts = nil
	o.categories = nil
}

// IsOpen reports whether the overlay is shown.
func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// Loading reports whether the open fetch is still running.
func (o *Overlay) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// Err returns the last fetch error, if any.
func (o *Overlay) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Query returns the prompts whose key contains q, ignoring case, in fetch
// order. An empty q returns every prompt.
func (o *Overlay) Query(q string) []Result {
	o.mu.Lock()
	defer o.mu.Unlock()

	needle := strings.ToLower(q)
	results := []Result{}
	for _, p := range o.prompts {
		if needle != "" && !strings.Contains(strings.ToLower(Key(p)), needle) {
			continue
		}
		name, ok := o.categories[p.CategoryID]
		if !ok {
			name = Uncategorized
		}
		results = append(results, Result{Prompt: p, CategoryName: name})
	}
	return results
}

// Select records the chosen prompt and closes the overlay.
func (o *Overlay) Select(id int64) (models.Prompt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range o.prompts {
		if p.ID == id {
			o.selected = &p
			o.close()
			return p, nil
		}
	}
	return models.Prompt{}, apperrors.ErrPromptNotFound
}

// Selected returns the last selected prompt, or nil.
func (o *Overlay) Selected() *models.Prompt {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil {
		return nil
	}
	p := *o.selected
	return &p
}
