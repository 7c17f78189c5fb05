// Package errors provides structured error types for the nodecanvas application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the scene core, stores, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or document validation failures
//   - *_NOT_FOUND: Resource not found
//   - Everything else: specific recoverable outcomes of scene operations
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFile, "missing %q key", "nodes")
//	if errors.Is(err, errors.ErrCodeInvalidFile) {
//	    // Handle malformed document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "load scene %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document and load errors
	ErrCodeInvalidFile       Code = "INVALID_FILE"       // persisted document is structurally malformed
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"     // scene file does not exist
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE" // an id resolves to no object during deserialize
	ErrCodeUnknownNodeType   Code = "UNKNOWN_NODE_TYPE"  // node type in a document is not registered

	// Graph mutation outcomes
	ErrCodeEdgeRejected Code = "EDGE_REJECTED" // edge candidate failed the validator pipeline

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidName  Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Persistence errors
	ErrCodeStore Code = "STORE_ERROR"

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
