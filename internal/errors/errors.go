package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a notetxt error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrFileNotFound    ErrorCode = "FILE_NOT_FOUND"   // 404
	ErrNoteTooLarge    ErrorCode = "NOTE_TOO_LARGE"   // 413
	ErrUnsupportedFile ErrorCode = "UNSUPPORTED_FILE" // 415
	ErrEmptyNote       ErrorCode = "EMPTY_NOTE"       // 422
	ErrCancelled       ErrorCode = "CANCELLED"        // 499
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// NoteError represents a structured error with code, status, and details.
type NoteError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *NoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *NoteError {
	return &NoteError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a preview that does not exist.
func NewNotFound(identifier string) *NoteError {
	return &NoteError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("preview not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *NoteError {
	return &NoteError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNoteTooLarge creates a 413 error when note text exceeds the size limit.
func NewNoteTooLarge(max, actual int) *NoteError {
	return &NoteError{
		Code:    ErrNoteTooLarge,
		Status:  413,
		Message: fmt.Sprintf("note exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewUnsupportedFile creates a 415 error for files that are not .txt or .md.
func NewUnsupportedFile(name string) *NoteError {
	return &NoteError{
		Code:    ErrUnsupportedFile,
		Status:  415,
		Message: "file not supported: please select a '.txt' or '.md' file",
		Details: map[string]any{"file": name},
	}
}

// NewEmptyNote creates a 422 error for operations that need note content.
func NewEmptyNote(msg string) *NoteError {
	return &NoteError{
		Code:    ErrEmptyNote,
		Status:  422,
		Message: msg,
	}
}

// NewCancelled creates a 499 error when an operation's context is cancelled.
func NewCancelled(op string) *NoteError {
	return &NoteError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *NoteError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &NoteError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if err, or any error it wraps, is a NoteError with the given code.
func Is(err error, code ErrorCode) bool {
	var nErr *NoteError
	if stderrors.As(err, &nErr) {
		return nErr.Code == code
	}
	return false
}
