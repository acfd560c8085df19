package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence error carrying the HTTP status it maps to.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)

	generic bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches copies of the same sentinel and the generic sentinel for the
// status code, so errors.Is(ErrUserNotFound, ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code != e.Code {
		return false
	}
	return t.generic || t.Message == e.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err, generic: e.generic}
}

// Generic sentinels.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
		generic: true,
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
		generic: true,
	}
)

// Entity-specific sentinels.
var (
	ErrUserNotFound    = &Error{Code: http.StatusNotFound, Message: "user not found"}
	ErrUsernameTaken   = &Error{Code: http.StatusConflict, Message: "username already taken"}
	ErrSessionNotFound = &Error{Code: http.StatusNotFound, Message: "session not found"}
)
