package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/prompt"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

// Error codes for command failures. These codes are stable.
const (
	ErrConfigInvalid   = "CONFIG_INVALID"
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrFileReadError   = "FILE_READ_ERROR"
	ErrFileNotFound    = "FILE_NOT_FOUND"
	ErrAPIError        = "API_ERROR"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrNotInteractive  = "NOT_INTERACTIVE"
	ErrInternal        = "INTERNAL_ERROR"
)

// Exit statuses returned by Execute.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitCanceled = 130
)

// Error is a command failure with a stable code and an optional hint.
type Error struct {
	Code       string
	Err        error
	Suggestion string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, err error, suggestion string) *Error {
	return &Error{Code: code, Err: err, Suggestion: suggestion}
}

func errorf(code, suggestion, format string, args ...any) *Error {
	return newError(code, fmt.Errorf(format, args...), suggestion)
}

// apiError classifies a failed remote call.
func apiError(err error) error {
	if errors.Is(err, prompt.ErrCanceled) {
		return err
	}
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsUnauthorized():
			return newError(ErrUnauthorized, err, "Check the token with 'notion-cli auth status'")
		case apiErr.IsNotFound():
			return newError(ErrAPIError, err, "Make sure the page or database is shared with the integration")
		}
	}
	return newError(ErrAPIError, err, "")
}

// exitCode reports err on w and returns the process exit status.
// Cancellation exits quietly.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, prompt.ErrCanceled) {
		return ExitCanceled
	}

	fmt.Fprintln(w, ui.Error("Error: "+err.Error()))
	var cliErr *Error
	if errors.As(err, &cliErr) && cliErr.Suggestion != "" {
		fmt.Fprintln(w, ui.Hint("Hint: "+cliErr.Suggestion))
	}
	return ExitFailure
}
