package cli

import (
	"errors"
	"fmt"
	"io"

	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/notify"
)

// printNotifier renders notifications as single lines.
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Notify(n notify.Notification) {
	mark := "✓"
	if n.Variant == notify.Destructive {
		mark = "✗"
	}
	if n.Description == "" {
		fmt.Fprintf(p.w, "%s %s\n", mark, n.Title)
		return
	}
	fmt.Fprintf(p.w, "%s %s: %s\n", mark, n.Title, n.Description)
}

// shownError marks an error the user has already seen as a notification.
type shownError struct {
	err error
}

func (s *shownError) Error() string { return s.err.Error() }
func (s *shownError) Unwrap() error { return s.err }

// notifiedCodes are the AppError codes whose producers notify on failure.
var notifiedCodes = map[string]bool{
	apperrors.ErrLoadFailed.Code:       true,
	apperrors.ErrSaveFailed.Code:       true,
	apperrors.ErrDeleteFailed.Code:     true,
	apperrors.ErrSubmitFailed.Code:     true,
	apperrors.ErrValidation.Code:       true,
	apperrors.ErrClipboard.Code:        true,
	apperrors.ErrShareUnsupported.Code: true,
	apperrors.ErrDownloadFailed.Code:   true,
}

// shown wraps err when its code says a notification was already sent.
func shown(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && notifiedCodes[appErr.Code] {
		return &shownError{err: err}
	}
	return err
}

// AlreadyShown reports whether err was presented to the user as a
// notification and needs no further printing.
func AlreadyShown(err error) bool {
	var s *shownError
	return errors.As(err, &s)
}
