package types

import "fmt"

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Run-level error codes
const (
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrNoAgentsAvailable ErrorCode = "NO_AGENTS_AVAILABLE"
	ErrBudgetExceeded    ErrorCode = "BUDGET_EXCEEDED"
	ErrDeadlineExceeded  ErrorCode = "DEADLINE_EXCEEDED"
	ErrAllAgentsFailed   ErrorCode = "ALL_AGENTS_FAILED"
	ErrInternalError     ErrorCode = "INTERNAL_ERROR"
)

// Agent-level error codes
const (
	ErrAgentCall           ErrorCode = "AGENT_CALL"
	ErrProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrStreamInterrupted   ErrorCode = "STREAM_INTERRUPTED"
)

// Configuration error codes
const (
	ErrInvalidMode   ErrorCode = "INVALID_MODE"
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Provider  string    `json:"provider,omitempty"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// GetErrorCode extracts the error code from an error.
// Returns "" for errors that are not a *Error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
