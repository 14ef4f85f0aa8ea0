// Package errors provides coded errors for dotsync.
//
// Every error carries a stable ErrorCode so callers and tests can branch on
// the category of a failure instead of matching message strings.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Directive errors
	ErrDirectiveUnknown ErrorCode = "DIRECTIVE_UNKNOWN"

	// Identity errors
	ErrUserLookup  ErrorCode = "USER_LOOKUP"
	ErrGroupLookup ErrorCode = "GROUP_LOOKUP"

	// Filesystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
	ErrChmod      ErrorCode = "CHMOD"
	ErrChown      ErrorCode = "CHOWN"
	ErrGlob       ErrorCode = "GLOB"

	// Tool execution errors
	ErrToolExecute ErrorCode = "TOOL_EXECUTE"

	// Run errors
	ErrRunFailed ErrorCode = "RUN_FAILED"
)

// DotsyncError represents a structured error with code and details
type DotsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotsyncError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a DotsyncError with the same code
func (e *DotsyncError) Is(target error) bool {
	var targetErr *DotsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotsyncError with the given code and message
func New(code ErrorCode, message string) *DotsyncError {
	return &DotsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotsyncError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *DotsyncError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotsyncError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *DotsyncError) WithDetail(key string, value interface{}) *DotsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dsErr *DotsyncError
	if errors.As(err, &dsErr) {
		return dsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotsyncError
func GetErrorCode(err error) ErrorCode {
	var dsErr *DotsyncError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotsyncError
func GetErrorDetails(err error) map[string]interface{} {
	var dsErr *DotsyncError
	if errors.As(err, &dsErr) {
		return dsErr.Details
	}
	return nil
}
