// Package errors provides structured error types for the umlkit library and CLI.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI, and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes follow the failure taxonomy of the diagram core:
//   - INVALID_ARGUMENT: malformed or unrecognized external input, such as an
//     unknown persisted dialect name. Surfaced to the caller; typically becomes
//     a "cannot open file" style message.
//   - PRECONDITION_VIOLATION: a programming error in the caller, such as a nil
//     diagram passed to a registry lookup. Not user-recoverable.
//   - STRUCTURAL_VIOLATION: a mutation that would break a diagram invariant.
//     Builders reject these before any partial effect; a correct caller that
//     guards mutation with the Can* predicates never sees one.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "unknown diagram type: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core taxonomy
	ErrCodeInvalidArgument       Code = "INVALID_ARGUMENT"
	ErrCodePreconditionViolation Code = "PRECONDITION_VIOLATION"
	ErrCodeStructuralViolation   Code = "STRUCTURAL_VIOLATION"

	// Persistence and store errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Precondition panics with a PRECONDITION_VIOLATION error unless cond holds.
// Precondition failures indicate a bug in the caller, not a user-recoverable
// condition, so they are raised immediately and fatally.
func Precondition(cond bool, format string, args ...any) {
	if !cond {
		panic(New(ErrCodePreconditionViolation, format, args...))
	}
}
