package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Reward API
	ErrCodeHTTPFailure    ErrorCode = "HTTP_FAILURE"
	ErrCodeDecodeFailure  ErrorCode = "DECODE_FAILURE"
	ErrCodeTimestampParse ErrorCode = "TIMESTAMP_PARSE_FAILURE"

	// Scheduling
	ErrCodeScheduler ErrorCode = "SCHEDULER_ERROR"

	// Startup
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// Operator API
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured error carried through the scheduler and the operator API
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

// HTTPFailure reports a non-2xx response from the reward API.
func HTTPFailure(endpoint string, status int, statusText string) *AppError {
	return New(ErrCodeHTTPFailure, fmt.Sprintf("%s failed: %d %s", endpoint, status, statusText)).
		WithDetails(map[string]any{"endpoint": endpoint, "status": status})
}

// Transport reports a connection-level failure, including timeouts.
func Transport(endpoint string, cause error) *AppError {
	return Wrap(ErrCodeHTTPFailure, fmt.Sprintf("%s request failed", endpoint), cause).
		WithDetails(map[string]any{"endpoint": endpoint})
}

func DecodeFailure(endpoint string, cause error) *AppError {
	return Wrap(ErrCodeDecodeFailure, fmt.Sprintf("%s returned an undecodable body", endpoint), cause)
}

func TimestampParse(cause error) *AppError {
	return Wrap(ErrCodeTimestampParse, "could not parse next claim time", cause)
}

func Scheduler(cause error) *AppError {
	return Wrap(ErrCodeScheduler, "scheduler error", cause)
}

func Config(message string) *AppError {
	return New(ErrCodeConfig, message)
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsClientFailure reports whether err is one of the failures the reward
// client produces. Anything else reaching the scheduler is unexpected.
func IsClientFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeHTTPFailure, ErrCodeDecodeFailure, ErrCodeTimestampParse:
		return IsAppError(err)
	}
	return false
}
