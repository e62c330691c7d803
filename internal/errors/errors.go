package errors

import (
	"errors"
	"fmt"
)

// Error is the structured error type for setupcheck.
// Checks use it to carry the detail they print; the command boundary uses
// it to tell interruption apart from unexpected failures.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_PATH_MISSING").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category, derived from the code.
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error with the given code and message.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ErrInterrupted is the sentinel matched (by code) when a run is cancelled.
var ErrInterrupted = New(ErrCodeInterrupted, "verification cancelled by user", nil)

// ConfigError creates a manifest configuration error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal reports whether err ends the whole verification run.
func IsFatal(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return isFatalCode(e.Code)
	}
	return false
}

// IsInterrupted reports whether err is, or wraps, an interruption.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// GetCode extracts the error code from an Error.
// Returns empty string if err is not an Error.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from an Error.
// Returns empty string if err is not an Error.
func GetCategory(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
