// Package explorer is the client-side synchronization layer of the prompt
// library. It loads categories and prompts, derives the category grid and the
// filtered prompt list, and keeps the in-memory collections consistent with
// the backend across create, update and delete.
package explorer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"promptdeck/internal/actions"
	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/icons"
	"promptdeck/internal/logger"
	"promptdeck/internal/models"
	"promptdeck/internal/notify"
	"promptdeck/internal/promptform"
	"promptdeck/internal/services"
)

// ErrSuperseded is returned by a Load whose result was discarded because a
// newer Load started after it.
var ErrSuperseded = errors.New("explorer: load superseded by a newer load")

// Phase is the fetch lifecycle.
type Phase int

const (
	Loading Phase = iota
	Error
	Ready
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// View is either GridView or ListView.
type View interface {
	isView()
}

// GridView shows every category.
type GridView struct{}

// ListView shows the prompts of one category narrowed by Query.
type ListView struct {
	CategoryID int64
	Query      string
}

func (GridView) isView() {}
func (ListView) isView() {}

// Tile is one cell of the category grid.
type Tile struct {
	Category    models.Category
	PromptCount int
	Icon        icons.Key
}

// Config wires an Explorer to its collaborators.
type Config struct {
	Library         services.LibraryServicer
	Actions         *actions.Actions
	Notifier        notify.Notifier
	DescriptionMode models.DescriptionMode
}

// Explorer holds the session state. It is safe for concurrent use; the lock
// is never held across backend calls.
type Explorer struct {
	library  services.LibraryServicer
	actions  *actions.Actions
	notifier notify.Notifier
	mode     models.DescriptionMode
	log      *zap.SugaredLogger

	mu         sync.Mutex
	phase      Phase
	loadErr    error
	loadGen    uint64
	categories []models.Category
	prompts    []models.Prompt
	view       View
	form       *promptform.Session
	inFlight   map[int64]struct{}
	pending    int // mutations awaiting a backend response
}

// New creates an Explorer in the Loading phase showing the grid.
func New(cfg Config) *Explorer {
	n := cfg.Notifier
	if n == nil {
		n = notify.Discard
	}
	a := cfg.Actions
	if a == nil {
		a = actions.New(nil, nil, nil, n)
	}
	mode := cfg.DescriptionMode
	if mode == "" {
		mode = models.DescriptionRequired
	}
	return &Explorer{
		library:    cfg.Library,
		actions:    a,
		notifier:   n,
		mode:       mode,
		log:        logger.Named("explorer"),
		phase:      Loading,
		categories: []models.Category{},
		prompts:    []models.Prompt{},
		view:       GridView{},
		inFlight:   make(map[int64]struct{}),
	}
}

// Load fetches categories and prompts concurrently and replaces both
// collections on success. Either failure fails the whole load and moves the
// explorer to the Error phase. Calling Load again reloads; a reload is
// refused with ErrOperationInProgress while a mutation awaits its response.
func (e *Explorer) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.pending > 0 {
		e.mu.Unlock()
		return apperrors.ErrOperationInProgress
	}
	e.loadGen++
	gen := e.loadGen
	e.phase = Loading
	e.loadErr = nil
	e.mu.Unlock()

	var (
		categories []models.Category
		prompts    []models.Prompt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = e.library.FetchCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prompts, err = e.library.FetchPrompts(gctx)
		return err
	})
	err := g.Wait()

	e.mu.Lock()
	if gen != e.loadGen {
		e.mu.Unlock()
		e.log.Debugw("discarding superseded load", "generation", gen)
		return ErrSuperseded
	}
	if err != nil {
		appErr := apperrors.Wrap(apperrors.ErrLoadFailed, err)
		e.phase = Error
		e.loadErr = appErr
		e.mu.Unlock()

		e.log.Warnw("library load failed", "error", err)
		e.notifier.Notify(notify.Error("Error loading data", err.Error()))
		return appErr
	}
	if categories == nil {
		categories = []models.Category{}
	}
	if prompts == nil {
		prompts = []models.Prompt{}
	}
	e.categories = categories
	e.prompts = prompts
	e.phase = Ready
	e.mu.Unlock()

	e.log.Debugw("library loaded", "categories", len(categories), "prompts", len(prompts))
	return nil
}

// Phase returns the fetch lifecycle phase.
func (e *Explorer) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Loading reports whether a load is in progress.
func (e *Explorer) Loading() bool {
	return e.Phase() == Loading
}

// Err returns the LOAD_FAILED error of the last load, or nil.
func (e *Explorer) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Categories returns a copy of the category collection.
func (e *Explorer) Categories() []models.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Category{}, e.categories...)
}

// Prompts returns a copy of the prompt collection in collection order.
func (e *Explorer) Prompts() []models.Prompt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Prompt{}, e.prompts...)
}

// Prompt looks up a prompt by id.
func (e *Explorer) Prompt(id int64) (models.Prompt, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(id)
	if i < 0 {
		return models.Prompt{}, false
	}
	return e.prompts[i], true
}

// View returns the current view.
func (e *Explorer) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// SelectCategory switches to the prompt list of a category with an empty
// search query. Nothing is fetched.
func (e *Explorer) SelectCategory(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view = ListView{CategoryID: id}
}

// BackToCategories returns to the category grid.
func (e *Explorer) BackToCategories() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view = GridView{}
}

// SetSearchQuery narrows the prompt list. It has no effect on the grid.
func (e *Explorer) SetSearchQuery(q string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if lv, ok := e.view.(ListView); ok {
		lv.Query = q
		e.view = lv
	}
}

// SearchQuery returns the current query, empty on the grid.
func (e *Explorer) SearchQuery() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if lv, ok := e.view.(ListView); ok {
		return lv.Query
	}
	return ""
}

// VisiblePrompts is the filtered prompt list. It is empty on the grid.
func (e *Explorer) VisiblePrompts() []models.Prompt {
	e.mu.Lock()
	defer e.mu.Unlock()
	lv, ok := e.view.(ListView)
	if !ok {
		return []models.Prompt{}
	}
	return FilterPrompts(e.prompts, lv.CategoryID, lv.Query)
}

// Grid returns one tile per category. Counts cover the whole collection and
// ignore any search query.
func (e *Explorer) Grid() []Tile {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := CountByCategory(e.prompts)
	tiles := make([]Tile, 0, len(e.categories))
	for _, c := range e.categories {
		tiles = append(tiles, Tile{Category: c, PromptCount: counts[c.ID], Icon: icons.For(c.Name)})
	}
	return tiles
}

// SelectedCategory resolves the category of the list view. It returns nil on
// the grid or when the id is unknown.
func (e *Explorer) SelectedCategory() *models.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	lv, ok := e.view.(ListView)
	if !ok {
		return nil
	}
	for _, c := range e.categories {
		if c.ID == lv.CategoryID {
			return &c
		}
	}
	return nil
}

// Copy stages a prompt's text on the clipboard.
func (e *Explorer) Copy(p models.Prompt) error {
	return e.actions.Copy(p)
}

// Share hands a prompt to the sharing capability.
func (e *Explorer) Share(ctx context.Context, p models.Prompt) error {
	return e.actions.Share(ctx, p)
}

// Download saves a prompt as a text file and returns its path.
func (e *Explorer) Download(p models.Prompt) (string, error) {
	return e.actions.Download(p)
}

// indexOf must be called with mu held.
func (e *Explorer) indexOf(id int64) int {
	for i, p := range e.prompts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
