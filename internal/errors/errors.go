package errors

import (
	stderrors "errors"
	"fmt"

	"inkartidy/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped
// AppError is kept; domain sentinels are classified.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain. Errors
// without one are classified by domain sentinel, falling back to
// INTERNAL_ERROR.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case stderrors.Is(err, core.ErrMissingInput):
		return CodeMissingInput
	case stderrors.Is(err, core.ErrMalformedInput):
		return CodeMalformedInput
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeMissingInput   = "MISSING_INPUT"
	CodeMalformedInput = "MALFORMED_INPUT"
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeStorageError   = "STORAGE_ERROR"
	CodeRenderError    = "RENDER_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case CodeConfigInvalid:
		return 2
	case CodeMissingInput, CodeMalformedInput:
		return 3
	case CodeStorageError:
		return 4
	case CodeRenderError:
		return 5
	default:
		return 1
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func StorageError(message string, cause error) *AppError {
	return &AppError{Code: CodeStorageError, Message: message, Cause: cause}
}

func RenderError(presenter string, cause error) *AppError {
	return &AppError{
		Code:    CodeRenderError,
		Message: fmt.Sprintf("%s export failed", presenter),
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
