package cli

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name?\n> " {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	if _, err := GetSimpleText(rdr(""), "Name?", &out); err == nil {
		t.Fatal("expected EOF on empty input")
	}
}

func TestGetTextWithDefault(t *testing.T) {
	var out bytes.Buffer

	got, err := GetTextWithDefault(rdr("\n"), "Title", "Refactor", &out)
	if err != nil || got != "Refactor" {
		t.Fatalf("empty input: got %q, err=%v", got, err)
	}
	if !strings.Contains(out.String(), "[Refactor]") {
		t.Errorf("expected current value in prompt, got %q", out.String())
	}

	got, err = GetTextWithDefault(rdr("Rewrite\n"), "Title", "Refactor", &out)
	if err != nil || got != "Rewrite" {
		t.Fatalf("new input: got %q, err=%v", got, err)
	}
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double_enter", "a\nb\n\n\n", "a\nb"},
		{"eof_without_blank_line", "a\nb", "a\nb"},
		{"empty", "\n", ""},
		{"crlf", "a\r\nb\r\n\r\n", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Enter text", &out)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(rdr(tt.input), "Delete?", &out)
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAbbreviate(t *testing.T) {
	if got := abbreviate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := abbreviate("line one\nline two", 40); got != "line one line two" {
		t.Errorf("newlines not flattened: %q", got)
	}
	if got := abbreviate("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("got %q", got)
	}
}

func TestInteractiveInput(t *testing.T) {
	old := isTerminal
	t.Cleanup(func() { isTerminal = old })

	if interactiveInput(strings.NewReader("x")) {
		t.Error("a string reader is never interactive")
	}

	isTerminal = func(int) bool { return true }
	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Skip("no null device")
	}
	defer f.Close()
	if !interactiveInput(f) {
		t.Error("expected a terminal file to be interactive")
	}
}
