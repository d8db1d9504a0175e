package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Orchestration error codes
const (
	// ErrInvalidTask marks a malformed task definition.
	ErrInvalidTask ErrorCode = "INVALID_TASK"
	// ErrCapabilityNotFound marks an invocation of an unregistered capability.
	ErrCapabilityNotFound ErrorCode = "CAPABILITY_NOT_FOUND"
	// ErrMissingArguments marks an invocation missing required arguments.
	ErrMissingArguments ErrorCode = "MISSING_ARGUMENTS"
	// ErrHandlerFault wraps any fault raised by a tool handler.
	ErrHandlerFault ErrorCode = "HANDLER_FAULT"
	// ErrCircularDependency marks a circular or missing dependency in a
	// flow's task graph. Fatal to a DAG run, and distinct from a tool
	// failure: it is a flow-definition bug, not a runtime problem.
	ErrCircularDependency ErrorCode = "CIRCULAR_OR_MISSING_DEPENDENCY"
	// ErrPlannerFault marks a failed plan generation. Recovered internally
	// via the fallback plan, never surfaced to callers.
	ErrPlannerFault ErrorCode = "PLANNER_FAULT"
	// ErrAuditStore marks a durable audit write failure.
	ErrAuditStore ErrorCode = "AUDIT_STORE"
	// ErrSynthesis marks a failed final report synthesis.
	ErrSynthesis ErrorCode = "SYNTHESIS"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
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

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetErrorCode extracts the error code from an error, unwrapping as needed.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
