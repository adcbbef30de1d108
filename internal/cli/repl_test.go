package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "promptdeck/internal/errors"
)

type fakeCommander struct {
	calls []string
	err   error
}

func (f *fakeCommander) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeCommander) Status() string               { return " /Coding" }
func (f *fakeCommander) List(context.Context) error   { return f.record("ls") }
func (f *fakeCommander) Cd(arg string) error          { return f.record("cd " + arg) }
func (f *fakeCommander) Find(text string) error       { return f.record("find " + text) }
func (f *fakeCommander) Show(arg string) error        { return f.record("show " + arg) }
func (f *fakeCommander) New(context.Context) error    { return f.record("new") }
func (f *fakeCommander) Copy(arg string) error        { return f.record("copy " + arg) }
func (f *fakeCommander) Save(arg string) error        { return f.record("save " + arg) }
func (f *fakeCommander) Reload(context.Context) error { return f.record("reload") }
func (f *fakeCommander) Edit(_ context.Context, arg string) error {
	return f.record("edit " + arg)
}
func (f *fakeCommander) Remove(_ context.Context, arg string) error {
	return f.record("rm " + arg)
}
func (f *fakeCommander) Share(_ context.Context, arg string) error {
	return f.record("share " + arg)
}
func (f *fakeCommander) Search(_ context.Context, q string, pick bool) error {
	if pick {
		return f.record("search! " + q)
	}
	return f.record("search " + q)
}

var _ commander = (*fakeCommander)(nil)
var _ commander = (*App)(nil)

func TestRunREPL_Dispatch(t *testing.T) {
	f := &fakeCommander{}
	input := strings.Join([]string{
		"ls",
		"cd Coding",
		"",
		"find  two words ",
		"show 10",
		"new",
		"edit 10",
		"rm 10",
		"copy 10",
		"share 10",
		"save 10",
		"search refactor code",
		"reload",
		"cd ..",
		"exit",
		"ls",
	}, "\n")
	var out bytes.Buffer

	runREPL(context.Background(), f, rdr(input), &out, false)

	want := []string{
		"ls", "cd Coding", "find two words", "show 10", "new", "edit 10", "rm 10",
		"copy 10", "share 10", "save 10", "search refactor code", "reload", "cd ..",
	}
	if strings.Join(f.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %q\nwant    %q", f.calls, want)
	}
	if !strings.HasSuffix(out.String(), "Bye!\n") {
		t.Errorf("expected goodbye, got %q", out.String())
	}
	if strings.Contains(out.String(), "promptdeck") {
		t.Error("non-interactive shell must not print a prompt")
	}
}

func TestRunREPL_Interactive(t *testing.T) {
	f := &fakeCommander{}
	var out bytes.Buffer

	runREPL(context.Background(), f, rdr("search x\n"), &out, true)

	if !strings.Contains(out.String(), "promptdeck /Coding> ") {
		t.Errorf("expected status prompt, got %q", out.String())
	}
	if len(f.calls) != 1 || f.calls[0] != "search! x" {
		t.Errorf("expected interactive search to allow picking, got %q", f.calls)
	}
}

func TestRunREPL_Errors(t *testing.T) {
	t.Run("plain error is printed", func(t *testing.T) {
		f := &fakeCommander{err: apperrors.ErrPromptNotFound}
		var out bytes.Buffer
		runREPL(context.Background(), f, rdr("show 99\n"), &out, false)

		if !strings.Contains(out.String(), "error: Prompt not found") {
			t.Errorf("expected error line, got %q", out.String())
		}
	})

	t.Run("shown error is not repeated", func(t *testing.T) {
		f := &fakeCommander{err: shown(apperrors.Wrap(apperrors.ErrSaveFailed, errors.New("boom")))}
		var out bytes.Buffer
		runREPL(context.Background(), f, rdr("new\n"), &out, false)

		if strings.Contains(out.String(), "error:") {
			t.Errorf("expected no error line, got %q", out.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		f := &fakeCommander{}
		var out bytes.Buffer
		runREPL(context.Background(), f, rdr("frobnicate\nhelp\n"), &out, false)

		if !strings.Contains(out.String(), "Unknown command: frobnicate") {
			t.Errorf("expected unknown command, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Available commands:") {
			t.Errorf("expected help text, got %q", out.String())
		}
	})
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	f := &fakeCommander{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runREPL(ctx, f, rdr("ls\nls\n"), &bytes.Buffer{}, false)

	if len(f.calls) != 0 {
		t.Errorf("expected no commands after cancel, got %q", f.calls)
	}
}
