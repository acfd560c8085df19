// Package store persists user aggregates and auth sessions.
//
// The default backend is Badger (this package); store/sqlite provides an
// alternative behind the same Store interface.
package store

import (
	"context"
	"iter"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

// Store defines every persistence operation the services need.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateUser loads the user, applies fn and writes the result in one
	// transaction. If fn returns an error nothing is written.
	UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
	ListUsers(ctx context.Context) iter.Seq2[*domain.User, error]

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
