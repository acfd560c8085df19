package service

import (
	"errors"
	"fmt"
	"time"

	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

// Clock returns the current time. Every service reads time through one so
// tests can pin it; production passes time.Now.
type Clock func() time.Time

// userLookupError maps a store lookup failure to a domain error.
func userLookupError(err error) error {
	var domainErr *domainerrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("user not found").WithCause(err)
	default:
		return fmt.Errorf("load user: %w", err)
	}
}
