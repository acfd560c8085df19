package store

import (
	"context"
	"iter"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

// CreateUser stores a new user. Usernames are unique after normalisation.
func (s *Badger) CreateUser(ctx context.Context, user *domain.User) error {
	return s.users.Create(ctx, user.ID, user)
}

// GetUser retrieves a user by ID.
func (s *Badger) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

// GetUserByUsername retrieves a user by username, ignoring case and Unicode form.
func (s *Badger) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByIndex(ctx, "username", username)
}

// UpdateUser runs fn against the stored user inside one transaction.
func (s *Badger) UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	return s.users.Mutate(ctx, id, fn)
}

// ListUsers iterates over all users.
func (s *Badger) ListUsers(ctx context.Context) iter.Seq2[*domain.User, error] {
	return s.users.List(ctx)
}
