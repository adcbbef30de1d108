package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"promptdeck/internal/actions"
	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/explorer"
	"promptdeck/internal/logger"
	"promptdeck/internal/models"
	"promptdeck/internal/notify"
	"promptdeck/internal/promptform"
	"promptdeck/internal/search"
	"promptdeck/internal/services"
)

// Options wires an App.
type Options struct {
	Library         services.LibraryServicer
	DescriptionMode models.DescriptionMode
	DownloadDir     string
	Clipboard       actions.Clipboard
	Sharer          actions.Sharer
	In              io.Reader
	Out             io.Writer
}

// App is the terminal front end over the explorer, the search overlay and
// the submit flow.
type App struct {
	library  services.LibraryServicer
	mode     models.DescriptionMode
	explorer *explorer.Explorer
	search   *search.Overlay
	notifier notify.Notifier
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp creates an App. Nothing is fetched until Load.
func NewApp(opts Options) *App {
	mode := opts.DescriptionMode
	if mode == "" {
		mode = models.DescriptionRequired
	}
	n := notify.Multi(printNotifier{w: opts.Out}, notify.NewLogNotifier(logger.Named("notify")))
	acts := actions.New(opts.Clipboard, opts.Sharer, actions.DirSaver{Dir: opts.DownloadDir}, n)

	return &App{
		library: opts.Library,
		mode:    mode,
		explorer: explorer.New(explorer.Config{
			Library:         opts.Library,
			Actions:         acts,
			Notifier:        n,
			DescriptionMode: mode,
		}),
		search:   search.New(opts.Library),
		notifier: n,
		reader:   bufio.NewReader(opts.In),
		out:      opts.Out,
	}
}

// Explorer exposes the session state.
func (a *App) Explorer() *explorer.Explorer {
	return a.explorer
}

// Load fetches the library. A failure has already been shown.
func (a *App) Load(ctx context.Context) error {
	return shown(a.explorer.Load(ctx))
}

// Status is the REPL prompt suffix: the selected category and query.
func (a *App) Status() string {
	switch a.explorer.Phase() {
	case explorer.Loading:
		return " (loading)"
	case explorer.Error:
		return " (error, type reload)"
	}
	c := a.explorer.SelectedCategory()
	if c == nil {
		return ""
	}
	if q := a.explorer.SearchQuery(); q != "" {
		return fmt.Sprintf(" /%s ?%s", c.Name, q)
	}
	return " /" + c.Name
}

// List prints the grid or the visible prompts of the selected category.
func (a *App) List(context.Context) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if _, ok := a.explorer.View().(explorer.ListView); ok {
		printPrompts(a.out, a.explorer.VisiblePrompts())
		return nil
	}
	printTiles(a.out, a.explorer.Grid())
	return nil
}

// Cd selects a category by id or name; ".." returns to the grid.
func (a *App) Cd(arg string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if arg == ".." || arg == "/" || arg == "" {
		a.explorer.BackToCategories()
		return nil
	}
	c, err := a.findCategory(arg)
	if err != nil {
		return err
	}
	a.explorer.SelectCategory(c.ID)
	return nil
}

// Find sets the search query of the prompt list.
func (a *App) Find(text string) error {
	if _, ok := a.explorer.View().(explorer.ListView); !ok {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "find works inside a category; cd into one first")
	}
	a.explorer.SetSearchQuery(text)
	printPrompts(a.out, a.explorer.VisiblePrompts())
	return nil
}

// Show prints one prompt in full.
func (a *App) Show(arg string) error {
	p, err := a.prompt(arg)
	if err != nil {
		return err
	}
	printPrompt(a.out, p, a.categoryName(p.CategoryID))
	return nil
}

// New runs the create form in the selected category.
func (a *App) New(ctx context.Context) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if _, ok := a.explorer.View().(explorer.ListView); !ok {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "cd into a category before creating a prompt")
	}

	s := a.explorer.OpenCreateForm()
	fmt.Fprintln(a.out, s.Title())
	fields, err := a.readFields(s.Fields())
	if err != nil {
		a.explorer.CancelForm()
		return err
	}
	return a.submitForm(ctx, s, fields)
}

// Edit runs the edit form for a prompt. Empty input keeps a field.
func (a *App) Edit(ctx context.Context, arg string) error {
	p, err := a.prompt(arg)
	if err != nil {
		return err
	}

	s := a.explorer.OpenEditForm(p)
	fmt.Fprintln(a.out, s.Title())
	fields, err := a.readFields(s.Fields())
	if err != nil {
		a.explorer.CancelForm()
		return err
	}
	return a.submitForm(ctx, s, fields)
}

// Remove deletes a prompt after confirmation.
func (a *App) Remove(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	confirm, err := a.explorer.RequestDelete(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s\n", confirm.Title(), confirm.Description())
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %q?", confirm.Prompt().Title), a.out)
	if err != nil {
		confirm.Cancel()
		return err
	}
	if !ok {
		confirm.Cancel()
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	return shown(confirm.Confirm(ctx))
}

// Copy puts a prompt's text on the clipboard.
func (a *App) Copy(arg string) error {
	p, err := a.prompt(arg)
	if err != nil {
		return err
	}
	return shown(a.explorer.Copy(p))
}

// Share offers a prompt to the sharing capability.
func (a *App) Share(ctx context.Context, arg string) error {
	p, err := a.prompt(arg)
	if err != nil {
		return err
	}
	if err := a.explorer.Share(ctx, p); err != nil {
		return &shownError{err: err}
	}
	return nil
}

// Save writes a prompt to the download directory.
func (a *App) Save(arg string) error {
	p, err := a.prompt(arg)
	if err != nil {
		return err
	}
	_, err = a.explorer.Download(p)
	return shown(err)
}

// Search queries the whole library through the overlay. On a terminal the
// user may pick a result, which is then shown.
func (a *App) Search(ctx context.Context, query string, pick bool) error {
	fmt.Fprintln(a.out, "Loading prompts...")
	if err := a.search.Open(ctx); err != nil {
		a.search.Close()
		detail := err.Error()
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			detail = appErr.Detail()
		}
		a.notifier.Notify(notify.Error("Search failed", detail))
		return &shownError{err: err}
	}

	results := a.search.Query(query)
	printResults(a.out, results)
	if !pick || len(results) == 0 {
		a.search.Close()
		return nil
	}

	answer, err := GetSimpleText(a.reader, "Open a prompt by id (Enter to close)", a.out)
	if err != nil || answer == "" {
		a.search.Close()
		return nil
	}
	id, err := parseID(answer)
	if err != nil {
		a.search.Close()
		return err
	}
	p, err := a.search.Select(id)
	if err != nil {
		a.search.Close()
		return err
	}
	printPrompt(a.out, p, categoryOf(results, p.ID))
	return nil
}

// Reload refetches the library.
func (a *App) Reload(ctx context.Context) error {
	if err := a.Load(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Loaded %d categories and %d prompts.\n",
		len(a.explorer.Categories()), len(a.explorer.Prompts()))
	return nil
}

func (a *App) submitForm(ctx context.Context, s *promptform.Session, fields promptform.Fields) error {
	fmt.Fprintln(a.out, promptform.LabelSaving)
	err := a.explorer.SubmitForm(ctx, fields)
	if err != nil && a.explorer.Form() == s {
		// The terminal form cannot stay open between commands.
		a.explorer.CancelForm()
	}
	return shown(err)
}

func (a *App) readFields(current promptform.Fields) (promptform.Fields, error) {
	f := current
	var err error

	if f.Title, err = GetTextWithDefault(a.reader, "Title", current.Title, a.out); err != nil {
		return f, err
	}
	if a.mode != models.DescriptionOmitted {
		label := "Description"
		if a.mode == models.DescriptionOptional {
			label += " (optional)"
		}
		if f.Description, err = GetTextWithDefault(a.reader, label, current.Description, a.out); err != nil {
			return f, err
		}
	}

	label := "Prompt text"
	if current.PromptText != "" {
		label += " (empty keeps the current text)"
	}
	text, err := GetMultiline(a.reader, label, a.out)
	if err != nil {
		return f, err
	}
	if text != "" {
		f.PromptText = text
	}
	return f, nil
}

func (a *App) requireReady() error {
	if a.explorer.Phase() != explorer.Ready {
		return apperrors.ErrNotReady
	}
	return nil
}

func (a *App) prompt(arg string) (models.Prompt, error) {
	if err := a.requireReady(); err != nil {
		return models.Prompt{}, err
	}
	id, err := parseID(arg)
	if err != nil {
		return models.Prompt{}, err
	}
	p, ok := a.explorer.Prompt(id)
	if !ok {
		return models.Prompt{}, apperrors.ErrPromptNotFound
	}
	return p, nil
}

func (a *App) findCategory(arg string) (models.Category, error) {
	return matchCategory(a.explorer.Categories(), arg)
}

// matchCategory resolves arg as a category id, then as a case-insensitive name.
func matchCategory(categories []models.Category, arg string) (models.Category, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		for _, c := range categories {
			if c.ID == id {
				return c, nil
			}
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, arg) {
			return c, nil
		}
	}
	return models.Category{}, apperrors.ErrCategoryNotFound
}

func (a *App) categoryName(id int64) string {
	for _, c := range a.explorer.Categories() {
		if c.ID == id {
			return c.Name
		}
	}
	return search.Uncategorized
}

func categoryOf(results []search.Result, id int64) string {
	for _, r := range results {
		if r.Prompt.ID == id {
			return r.CategoryName
		}
	}
	return search.Uncategorized
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid prompt id %q", s))
	}
	return id, nil
}

// Reader is the input the App reads forms and confirmations from.
func (a *App) Reader() *bufio.Reader {
	return a.reader
}
