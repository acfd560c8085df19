package googlebooks

import (
	"errors"
	"fmt"
)

// Sentinel errors for Google Books API operations.
var (
	ErrNotFound    = errors.New("googlebooks: not found")
	ErrRateLimited = errors.New("googlebooks: rate limited by server")
	ErrBadRequest  = errors.New("googlebooks: bad request")
	ErrServer      = errors.New("googlebooks: server error")
	ErrInvalidID   = errors.New("googlebooks: invalid volume ID")
	ErrEmptyQuery  = errors.New("googlebooks: empty query")
)

// Error adds the operation and subject to an underlying error.
type Error struct {
	Op  string // "search" or "volume"
	Arg string // query or volume ID
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("googlebooks %s [%s]: %v", e.Op, e.Arg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, arg string, err error) error {
	return &Error{Op: op, Arg: arg, Err: err}
}
