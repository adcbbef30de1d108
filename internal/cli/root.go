// Package cli is the terminal front end: a cobra command tree whose root
// command starts an interactive shell over the prompt library.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"promptdeck/internal/apikey"
	"promptdeck/internal/config"
	"promptdeck/internal/logger"
	"promptdeck/internal/models"
	"promptdeck/internal/promptform"
	"promptdeck/internal/submit"
)

type rootOptions struct {
	envFile string
	verbose bool
}

// NewRootCmd builds the promptdeck command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "promptdeck",
		Short: "Browse, search and curate a shared prompt library",
		Long: `Promptdeck is a terminal client for a shared library of AI prompts
grouped into categories.

Without a subcommand it starts an interactive shell:
  - browse categories and their prompts
  - filter, search, create, edit and delete prompts
  - copy, share or save a prompt as a text file`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logEnv(opts.verbose))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(
		&opts.envFile, "env-file", "", "env file to load (default: ./.env)",
	)
	root.PersistentFlags().BoolVarP(
		&opts.verbose, "verbose", "v", false, "log backend activity to stderr",
	)

	root.AddCommand(
		newCategoriesCmd(opts),
		newPromptsCmd(opts),
		newShowCmd(opts),
		newSearchCmd(opts),
		newSubmitCmd(opts),
		newDownloadCmd(opts),
		newDeleteCmd(opts),
		newKeygenCmd(opts),
	)
	return root
}

func logEnv(verbose bool) string {
	env := os.Getenv("ENV")
	if verbose || env == "production" || env == "test" {
		return env
	}
	return "cli"
}

func (o *rootOptions) envFiles() []string {
	if o.envFile == "" {
		return nil
	}
	return []string{o.envFile}
}

// session is an App bound to a command's streams and configuration.
type session struct {
	app   *App
	cfg   *config.Config
	close func() error
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.envFiles()...)
	if err != nil {
		return nil, err
	}
	library, closeFn, err := OpenLibrary(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	app := NewApp(Options{
		Library:         library,
		DescriptionMode: cfg.DescriptionMode,
		DownloadDir:     cfg.DownloadDir,
		In:              cmd.InOrStdin(),
		Out:             cmd.OutOrStdout(),
	})
	return &session{app: app, cfg: cfg, close: closeFn}, nil
}

// loaded opens a session and fetches the library.
func loaded(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	s, err := openSession(cmd, opts)
	if err != nil {
		return nil, err
	}
	if err := s.app.Load(cmd.Context()); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		logger.Get().Warnw("closing backend", "error", err)
	}
}

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	interactive := interactiveInput(cmd.InOrStdin())
	if interactive {
		fmt.Fprintln(out, "Welcome to promptdeck (type 'help' for commands)")
	}
	// A failed load is shown and recoverable with reload.
	if err := s.app.Load(cmd.Context()); err == nil && interactive {
		printTiles(out, s.app.Explorer().Grid())
	}

	runREPL(cmd.Context(), s.app, s.app.Reader(), out, interactive)
	return nil
}

func interactiveInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with their prompt counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loaded(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.app.List(cmd.Context())
		},
	}
}

func newPromptsCmd(opts *rootOptions) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "prompts <category>",
		Short: "List the prompts of a category (by id or name)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loaded(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.app.Cd(strings.Join(args, " ")); err != nil {
				return err
			}
			s.app.Explorer().SetSearchQuery(query)
			return s.app.List(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only prompts whose title or text contains this")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loaded(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.app.Show(args[0])
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search every prompt by title and text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.app.Search(cmd.Context(), strings.Join(args, " "), false)
		},
	}
}

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <id>",
		Short: "Save a prompt as <title>.txt in DOWNLOAD_DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loaded(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.app.Save(args[0])
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loaded(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if !yes {
				return s.app.Remove(cmd.Context(), args[0])
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirm, err := s.app.Explorer().RequestDelete(id)
			if err != nil {
				return err
			}
			return shown(confirm.Confirm(cmd.Context()))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var fields struct {
		title, description, text, category string
	}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Contribute a new prompt to the library",
		Long: `Submit a new prompt. Title, prompt text and category are required, and
so is the description unless DESCRIPTION_MODE=omitted. Missing values are
asked for when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			flow := submit.New(s.app.library, s.app.notifier, s.cfg.DescriptionMode)
			if err := flow.LoadCategories(cmd.Context()); err != nil {
				return err
			}

			if interactiveInput(cmd.InOrStdin()) {
				if err := askMissing(s.app, flow, &fields.title, &fields.description, &fields.text, &fields.category, s.cfg.DescriptionMode); err != nil {
					return err
				}
			}

			form := promptform.Fields{
				Title:       fields.title,
				Description: fields.description,
				PromptText:  fields.text,
			}
			if fields.category != "" {
				c, err := matchCategory(flow.Categories(), fields.category)
				if err != nil {
					return err
				}
				form.CategoryID = c.ID
			}

			fmt.Fprintln(out, submit.LabelSubmitting)
			created, err := flow.Submit(cmd.Context(), form)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintf(out, "Created prompt #%d\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&fields.title, "title", "t", "", "prompt title")
	cmd.Flags().StringVarP(&fields.description, "description", "d", "", "short description")
	cmd.Flags().StringVar(&fields.text, "text", "", "prompt text")
	cmd.Flags().StringVarP(&fields.category, "category", "c", "", "category id or name")
	return cmd
}

func askMissing(a *App, flow *submit.Flow, title, description, text, category *string, mode models.DescriptionMode) error {
	var err error
	if *category == "" {
		printCategoryChoices(a.out, flow)
		if *category, err = GetSimpleText(a.reader, "Category", a.out); err != nil {
			return err
		}
	}
	if *title == "" {
		if *title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
			return err
		}
	}
	if *description == "" && mode != models.DescriptionOmitted {
		if *description, err = GetSimpleText(a.reader, "Description", a.out); err != nil {
			return err
		}
	}
	if *text == "" {
		if *text, err = GetMultiline(a.reader, "Prompt text", a.out); err != nil {
			return err
		}
	}
	return nil
}

func printCategoryChoices(w io.Writer, flow *submit.Flow) {
	tw := newTable(w)
	for _, c := range flow.Categories() {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	_ = tw.Flush()
}

func newKeygenCmd(opts *rootOptions) *cobra.Command {
	var (
		role   string
		ref    string
		ttl    time.Duration
		secret string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Sign a project key for the dev backend",
		Long: `Sign an HS256 project key accepted by promptdeck-api. The key is signed
with --secret, or JWT_SECRET from the environment or env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				if err := godotenv.Load(opts.envFiles()...); err != nil {
					logger.Get().Debugw("no .env file loaded", "error", err)
				}
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("no signing secret: pass --secret or set JWT_SECRET")
			}
			key, err := apikey.Generate([]byte(secret), role, ref, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", apikey.RoleAnon, "key role: anon or service_role")
	cmd.Flags().StringVar(&ref, "ref", "local", "project ref recorded in the key")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "key lifetime; 0 never expires")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default: $JWT_SECRET)")
	return cmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
