// Package errors provides the application error taxonomy for promptdeck.
// Every failure surfaced to a user goes through AppError so front ends can
// decide between a blocking error view and a transient notification by code,
// while the backend's native error stays reachable through Unwrap.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches AppErrors by code so wrapped copies compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Detail returns the native error text when present, otherwise the message.
func (e *AppError) Detail() string {
	if e.Internal != nil {
		return e.Internal.Error()
	}
	return e.Message
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Explorer lifecycle errors.
var (
	ErrLoadFailed          = &AppError{Code: "LOAD_FAILED", Message: "Failed to load data. Please try again later.", StatusCode: http.StatusBadGateway}
	ErrNotReady            = &AppError{Code: "NOT_READY", Message: "Data is not loaded yet", StatusCode: http.StatusConflict}
	ErrOperationInProgress = &AppError{Code: "OPERATION_IN_PROGRESS", Message: "Another operation is already running for this prompt", StatusCode: http.StatusConflict}
	ErrFormNotOpen         = &AppError{Code: "FORM_NOT_OPEN", Message: "No prompt form is open", StatusCode: http.StatusConflict}
	ErrConfirmationClosed  = &AppError{Code: "CONFIRMATION_CLOSED", Message: "This confirmation is no longer active", StatusCode: http.StatusConflict}
)

// Mutation errors.
var (
	ErrSaveFailed   = &AppError{Code: "SAVE_FAILED", Message: "Save failed", StatusCode: http.StatusBadGateway}
	ErrDeleteFailed = &AppError{Code: "DELETE_FAILED", Message: "Delete failed", StatusCode: http.StatusBadGateway}
	ErrSubmitFailed = &AppError{Code: "SUBMISSION_FAILED", Message: "Submission failed", StatusCode: http.StatusBadGateway}
)

// Validation errors.
var (
	ErrValidation   = &AppError{Code: "VALIDATION_FAILED", Message: "Please fill out all fields before submitting.", StatusCode: http.StatusBadRequest}
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
)

// Lookup errors.
var (
	ErrPromptNotFound   = &AppError{Code: "PROMPT_NOT_FOUND", Message: "Prompt not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Utility action errors.
var (
	ErrClipboard        = &AppError{Code: "CLIPBOARD_FAILED", Message: "Could not copy prompt to clipboard.", StatusCode: http.StatusInternalServerError}
	ErrShareUnsupported = &AppError{Code: "SHARE_UNSUPPORTED", Message: "Sharing is not supported on this device.", StatusCode: http.StatusNotImplemented}
	ErrDownloadFailed   = &AppError{Code: "DOWNLOAD_FAILED", Message: "Could not save prompt to a file.", StatusCode: http.StatusInternalServerError}
)

// Dev backend errors.
var (
	ErrInvalidAPIKey    = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrAPINotConfigured = &AppError{Code: "API_NOT_CONFIGURED", Message: "API key verification is not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)
