package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common error cases
var (
	// ErrNotFound indicates the requested file was not found
	ErrNotFound = errors.New("file not found")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFilename indicates the declared filename sanitizes to nothing usable
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrNotADirectory indicates the resolved parent path exists but is not a directory
	ErrNotADirectory = errors.New("not a directory")

	// ErrStorageError indicates a storage operation failed
	ErrStorageError = errors.New("storage error")

	// ErrUnknownProvider indicates the configured store provider does not exist
	ErrUnknownProvider = errors.New("unknown store provider")

	// ErrConfigError indicates a configuration error
	ErrConfigError = errors.New("configuration error")

	// ErrInternalServer indicates an internal server error occurred
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode represents HTTP-like error codes
type ErrorCode int

const (
	CodeBadRequest          ErrorCode = http.StatusBadRequest
	CodeNotFound            ErrorCode = http.StatusNotFound
	CodeConflict            ErrorCode = http.StatusConflict
	CodeInternalServerError ErrorCode = http.StatusInternalServerError
)

// AppError represents an application-level error with additional context
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for comparison
func (e *AppError) Is(target error) bool {
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error
func (e *AppError) HTTPStatus() int {
	return int(e.Code)
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new AppError with the given code, message, and underlying error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a new not found error
func NotFound(filename string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", filename), ErrNotFound)
}

// BadRequest creates a new bad request error
func BadRequest(message string, err error) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return NewAppError(CodeBadRequest, message, err)
}

// InternalError creates a new internal server error
func InternalError(message string, err error) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalServerError, message, err)
}

// InvalidFilename creates an error for a declared filename that sanitizes to nothing
func InvalidFilename(name string) *AppError {
	return NewAppError(CodeBadRequest, fmt.Sprintf("filename %q is not usable", name), ErrInvalidFilename)
}

// NotADirectory creates an error for a parent path occupied by a non-directory,
// naming the offending path
func NotADirectory(path string) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("%s is not a directory", path), ErrNotADirectory)
}

// DirectoryCreation creates an error for a failed directory creation
func DirectoryCreation(path string, err error) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("failed to create directory %s", path), err)
}

// WriteError creates an error for a failed file write
func WriteError(path string, err error) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("failed to write %s", path), err)
}

// StorageError creates a new storage error
func StorageError(operation string, err error) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("storage %s failed", operation), err)
}

// ConfigError creates a new configuration error
func ConfigError(message string, err error) *AppError {
	return NewAppError(CodeInternalServerError, message, err)
}

// UnknownProvider creates an error for an unrecognized store provider name
func UnknownProvider(name string) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("unsupported store provider: %s", name), ErrUnknownProvider)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest checks if an error is a bad request error
func IsBadRequest(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeBadRequest
	}
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidFilename)
}

// IsNotADirectory checks if an error is a not-a-directory error
func IsNotADirectory(err error) bool {
	return errors.Is(err, ErrNotADirectory)
}

// HTTPStatusOf returns the HTTP status for any error, defaulting to 500
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
