package store

import (
	"context"
	"fmt"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

// CreateSession stores a new session indexed by its refresh token hash.
func (s *Badger) CreateSession(ctx context.Context, session *domain.Session) error {
	return s.sessions.Create(ctx, session.ID, session)
}

// GetSession retrieves a session by ID. Expiry is the caller's concern.
func (s *Badger) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}

// GetSessionByRefreshToken retrieves a session by the hash of its refresh token.
func (s *Badger) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return s.sessions.GetByIndex(ctx, "token", tokenHash)
}

// UpdateSession replaces a session, moving the token index when the hash rotates.
func (s *Badger) UpdateSession(ctx context.Context, session *domain.Session) error {
	return s.sessions.Replace(ctx, session.ID, session)
}

// DeleteSession removes a session. Unknown IDs are not an error.
func (s *Badger) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// DeleteExpiredSessions removes every session expired at now and returns how many.
func (s *Badger) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	var expired []string
	for sess, err := range s.sessions.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("list sessions: %w", err)
		}
		if sess.IsExpired(now) {
			expired = append(expired, sess.ID)
		}
	}

	for i, id := range expired {
		if err := s.sessions.Delete(ctx, id); err != nil {
			return i, fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	return len(expired), nil
}
