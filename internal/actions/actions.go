// Package actions implements the side-effecting prompt utilities: copy to the
// clipboard, share, and download as a text file. None of them touch explorer
// state; each reports its outcome through a notifier.
package actions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/models"
	"promptdeck/internal/notify"
)

// MIMEText is the content type of downloaded prompts.
const MIMEText = "text/plain"

// ErrShareCancelled is returned by a Sharer when the user dismisses the share
// sheet. It is not reported.
var ErrShareCancelled = errors.New("share cancelled")

// Clipboard stages text on a clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteText implements Clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Sharer hands a prompt to a native sharing capability.
type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// UnsupportedSharer is used where no sharing capability exists.
type UnsupportedSharer struct{}

// Share always fails with SHARE_UNSUPPORTED.
func (UnsupportedSharer) Share(context.Context, string, string) error {
	return apperrors.ErrShareUnsupported
}

// File is a downloadable prompt.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

// FileName derives a download name from a prompt title: spaces and path
// separators become underscores and ".txt" is appended.
func FileName(title string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", `\`, "_")
	return r.Replace(title) + ".txt"
}

// NewFile serializes p for download. The content is the verbatim prompt text.
func NewFile(p models.Prompt) File {
	return File{
		Name:     FileName(p.Title),
		MIMEType: MIMEText,
		Content:  []byte(p.PromptText),
	}
}

// Saver persists a downloaded file and returns where it went.
type Saver interface {
	Save(f File) (string, error)
}

// DirSaver writes files into a directory.
type DirSaver struct {
	Dir string
}

// Save implements Saver.
func (d DirSaver) Save(f File) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", f.Name, err)
	}
	return path, nil
}

// Actions runs the utilities and reports their outcome.
type Actions struct {
	clipboard Clipboard
	sharer    Sharer
	saver     Saver
	notifier  notify.Notifier
}

// New creates Actions. Nil collaborators fall back to the system clipboard,
// an unsupported sharer, the working directory and a discarding notifier.
func New(c Clipboard, s Sharer, sv Saver, n notify.Notifier) *Actions {
	if c == nil {
		c = SystemClipboard{}
	}
	if s == nil {
		s = UnsupportedSharer{}
	}
	if sv == nil {
		sv = DirSaver{Dir: "."}
	}
	if n == nil {
		n = notify.Discard
	}
	return &Actions{clipboard: c, sharer: s, saver: sv, notifier: n}
}

// Copy stages the prompt text on the clipboard.
func (a *Actions) Copy(p models.Prompt) error {
	if err := a.clipboard.WriteText(p.PromptText); err != nil {
		a.notifier.Notify(notify.Error("Failed to copy", apperrors.ErrClipboard.Message))
		return apperrors.Wrap(apperrors.ErrClipboard, err)
	}
	a.notifier.Notify(notify.Info("Copied!", "Prompt copied to clipboard."))
	return nil
}

// Share offers the prompt to the sharing capability. A cancelled share is a
// silent success.
func (a *Actions) Share(ctx context.Context, p models.Prompt) error {
	err := a.sharer.Share(ctx, p.Title, p.PromptText)
	switch {
	case err == nil, errors.Is(err, ErrShareCancelled):
		return nil
	case errors.Is(err, apperrors.ErrShareUnsupported):
		a.notifier.Notify(notify.Error("Not supported", apperrors.ErrShareUnsupported.Message))
		return err
	default:
		a.notifier.Notify(notify.Error("Share failed", err.Error()))
		return err
	}
}

// Download saves the prompt as a plain-text file and returns its location.
func (a *Actions) Download(p models.Prompt) (string, error) {
	path, err := a.saver.Save(NewFile(p))
	if err != nil {
		a.notifier.Notify(notify.Error("Download failed", err.Error()))
		return "", apperrors.Wrap(apperrors.ErrDownloadFailed, err)
	}
	a.notifier.Notify(notify.Info("Downloaded", path))
	return path, nil
}
