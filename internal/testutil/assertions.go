package testutil

import (
	"errors"
	"testing"

	"promptdeck/internal/backend"
	apperrors "promptdeck/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertBackendError checks that err carries a *backend.Error with the expected code.
func AssertBackendError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected backend error with code %q, got nil", expectedCode)
	}

	var beErr *backend.Error
	if !errors.As(err, &beErr) {
		t.Fatalf("expected *backend.Error, got %T: %v", err, err)
	}

	if beErr.Code != expectedCode {
		t.Errorf("expected backend code %q, got %q (message: %s)", expectedCode, beErr.Code, beErr.Message)
	}
}
