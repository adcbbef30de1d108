package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commander is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type commander interface {
	Status() string
	List(ctx context.Context) error
	Cd(arg string) error
	Find(text string) error
	Show(arg string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Remove(ctx context.Context, arg string) error
	Copy(arg string) error
	Share(ctx context.Context, arg string) error
	Save(arg string) error
	Search(ctx context.Context, query string, pick bool) error
	Reload(ctx context.Context) error
}

const helpText = `Available commands:
  ls               list categories, or the prompts of the current category
  cd <id|name>     open a category; cd .. returns to the categories
  find <text>      filter the prompts of the current category
  show <id>        print a prompt
  new              create a prompt in the current category
  edit <id>        edit a prompt
  rm <id>          delete a prompt
  copy <id>        copy a prompt's text to the clipboard
  share <id>       share a prompt
  save <id>        save a prompt as a .txt file
  search <query>   search every prompt
  reload           fetch the library again
  help             show this help
  exit | quit      leave the program`

// runREPL reads commands line by line from reader and dispatches them to c
// until EOF, "exit" or "quit", or until ctx is done. Errors are printed and
// the loop continues; errors already shown as notifications are not repeated.
// When interactive is false no prompt is printed, which keeps piped output
// clean. reader must be the one c reads form input from, so buffered input is
// not split between two readers.
func runREPL(ctx context.Context, c commander, reader *bufio.Reader, out io.Writer, interactive bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if interactive {
			fmt.Fprintf(out, "promptdeck%s> ", c.Status())
		}
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		var err error
		switch cmd {
		case "help", "?":
			fmt.Fprintln(out, helpText)
		case "ls", "l", "list":
			err = c.List(ctx)
		case "cd":
			err = c.Cd(arg)
		case "find":
			err = c.Find(arg)
		case "show":
			err = c.Show(arg)
		case "new":
			err = c.New(ctx)
		case "edit":
			err = c.Edit(ctx, arg)
		case "rm", "delete":
			err = c.Remove(ctx, arg)
		case "copy":
			err = c.Copy(arg)
		case "share":
			err = c.Share(ctx, arg)
		case "save", "download":
			err = c.Save(arg)
		case "search":
			err = c.Search(ctx, arg, interactive)
		case "reload":
			err = c.Reload(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil && !AlreadyShown(err) {
			fmt.Fprintln(out, "error:", err)
		}
	}
}
