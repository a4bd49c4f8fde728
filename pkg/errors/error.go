// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration and credentials
//   - Data/Resource errors (200-299): Missing files, malformed CSV, summary queries
//   - Market data errors (700-799): Provider fetching, parsing and bronze writes
//   - Pipeline errors (900-999): Unimplemented paths and stages with failed items
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeNoDataFound, "no silver files in %s", dir)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "request failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeMissingCredential) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode extracts the ErrorCode from the first *Error in the chain. A bare
// *ShapeError reports ErrCodeDataShape. Anything else is ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		return shapeErr.Code()
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// ShapeError reports a CSV row that does not have the layout a stage expects.
type ShapeError struct {
	Path     string // File being read
	Line     int    // 1-based line number in the file
	Expected int    // Expected number of columns
	Actual   int    // Columns found on the line
	Message  string
}

// NewShapeError creates a new ShapeError for a column count mismatch.
func NewShapeError(path string, line, expected, actual int) *ShapeError {
	return &ShapeError{
		Path:     path,
		Line:     line,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("%s:%d: expected %d columns, got %d", path, line, expected, actual),
	}
}

// NewShapeErrorf creates a new ShapeError with a formatted message.
func NewShapeErrorf(path string, line int, format string, args ...any) *ShapeError {
	return &ShapeError{
		Path:    path,
		Line:    line,
		Message: fmt.Sprintf("%s:%d: %s", path, line, fmt.Sprintf(format, args...)),
	}
}

// Code is always ErrCodeDataShape.
func (e *ShapeError) Code() ErrorCode {
	return ErrCodeDataShape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return e.Message
}

// IsShapeError checks if an error is a ShapeError.
// It uses errors.As to check the error chain.
func IsShapeError(err error) bool {
	var shapeErr *ShapeError

	return errors.As(err, &shapeErr)
}
