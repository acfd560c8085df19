// Package storetest holds behaviour tests shared by every store.Store backend.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

var t0 = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

// Run exercises s against the store.Store contract. newStore must return an
// empty store that is closed by the test's cleanup.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("CreateAndGetUser", func(t *testing.T) { testCreateAndGetUser(t, newStore(t)) })
	t.Run("UsernameIsUnique", func(t *testing.T) { testUsernameIsUnique(t, newStore(t)) })
	t.Run("UpdateUser", func(t *testing.T) { testUpdateUser(t, newStore(t)) })
	t.Run("UpdateUserErrorWritesNothing", func(t *testing.T) { testUpdateUserErrorWritesNothing(t, newStore(t)) })
	t.Run("ConcurrentUpdatesAreNotLost", func(t *testing.T) { testConcurrentUpdates(t, newStore(t)) })
	t.Run("ListUsers", func(t *testing.T) { testListUsers(t, newStore(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("DeleteExpiredSessions", func(t *testing.T) { testDeleteExpiredSessions(t, newStore(t)) })
}

func newUser(id, username string) *domain.User {
	u := domain.NewUser(id, username, t0)
	u.PasswordHash = "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"
	u.Profile = domain.Profile{Name: "Reader " + id, Bio: "likes books"}
	return u
}

func testCreateAndGetUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	finished := t0.Add(-time.Hour)
	rating := 4.5

	u := newUser("user-1", "Ada")
	u.Books = []domain.Book{{
		ID: "vol1", Title: "Dune", Progress: domain.ProgressRead, Rating: &rating, FinishedAt: &finished,
		MoodHistory: []domain.BookMoodEntry{{Mood: "Great", Note: "wow", At: t0}},
	}}
	u.Moods = []domain.MoodEntry{{Value: domain.MoodGood, At: t0}}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, u.Profile, got.Profile)
	require.Len(t, got.Books, 1)
	assert.Equal(t, 4.5, *got.Books[0].Rating)
	assert.True(t, finished.Equal(*got.Books[0].FinishedAt))
	assert.Equal(t, "wow", got.Books[0].MoodHistory[0].Note)
	assert.Equal(t, domain.MoodGood, got.Moods[0].Value)

	byName, err := s.GetUserByUsername(ctx, " ADA ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byName.ID)

	_, err = s.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func testUsernameIsUnique(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("user-1", "ada")))

	err := s.CreateUser(ctx, newUser("user-2", "Ada"))
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	err = s.CreateUser(ctx, newUser("user-1", "grace"))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.GetUserByUsername(ctx, "grace")
	assert.ErrorIs(t, err, store.ErrUserNotFound, "failed create leaves no index behind")
}

func testUpdateUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("user-1", "ada")))

	updated, err := s.UpdateUser(ctx, "user-1", func(u *domain.User) error {
		u.Profile.Bio = "sci-fi mostly"
		u.Books = append(u.Books, domain.Book{ID: "vol9", Progress: domain.ProgressWant})
		u.Touch(t0.Add(time.Hour))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "sci-fi mostly", updated.Profile.Bio)

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "sci-fi mostly", got.Profile.Bio)
	require.Len(t, got.Books, 1)
	assert.True(t, t0.Add(time.Hour).Equal(got.UpdatedAt))

	_, err = s.UpdateUser(ctx, "missing", func(*domain.User) error { return nil })
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func testUpdateUserErrorWritesNothing(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("user-1", "ada")))

	boom := errors.New("boom")
	_, err := s.UpdateUser(ctx, "user-1", func(u *domain.User) error {
		u.Profile.Name = "changed"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Reader user-1", got.Profile.Name)
}

func testConcurrentUpdates(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("user-1", "ada")))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Go(func() {
			_, err := s.UpdateUser(ctx, "user-1", func(u *domain.User) error {
				u.Moods = append(u.Moods, domain.MoodEntry{Value: domain.MoodGreat, At: t0.Add(time.Duration(i) * time.Minute)})
				return nil
			})
			errs <- err
		})
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, got.Moods, ok, "every successful update is visible")
	assert.Positive(t, ok)
}

func testListUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := range 3 {
		require.NoError(t, s.CreateUser(ctx, newUser(fmt.Sprintf("user-%d", i), fmt.Sprintf("reader%d", i))))
	}

	var names []string
	for u, err := range s.ListUsers(ctx) {
		require.NoError(t, err)
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"reader0", "reader1", "reader2"}, names)

	n := 0
	for range s.ListUsers(ctx) {
		n++
		break
	}
	assert.Equal(t, 1, n, "early break is honoured")
}

func testSessions(t *testing.T, s store.Store) {
	ctx := context.Background()
	sess := &domain.Session{
		ID:               "sess-1",
		UserID:           "user-1",
		RefreshTokenHash: "hash-a",
		ExpiresAt:        t0.Add(24 * time.Hour),
		CreatedAt:        t0,
		LastSeenAt:       t0,
		IPAddress:        "198.51.100.4",
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSessionByRefreshToken(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
	assert.Equal(t, "198.51.100.4", got.IPAddress)

	rotated := *got
	rotated.RefreshTokenHash = "hash-b"
	rotated.LastSeenAt = t0.Add(time.Hour)
	require.NoError(t, s.UpdateSession(ctx, &rotated))

	_, err = s.GetSessionByRefreshToken(ctx, "hash-a")
	assert.ErrorIs(t, err, store.ErrSessionNotFound, "old token no longer resolves")

	got, err = s.GetSessionByRefreshToken(ctx, "hash-b")
	require.NoError(t, err)
	assert.True(t, t0.Add(time.Hour).Equal(got.LastSeenAt))

	byID, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "hash-b", byID.RefreshTokenHash)

	require.NoError(t, s.DeleteSession(ctx, "sess-1"))
	require.NoError(t, s.DeleteSession(ctx, "sess-1"), "delete is idempotent")

	_, err = s.GetSessionByRefreshToken(ctx, "hash-b")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteExpiredSessions(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i, exp := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
		require.NoError(t, s.CreateSession(ctx, &domain.Session{
			ID:               fmt.Sprintf("sess-%d", i),
			UserID:           "user-1",
			RefreshTokenHash: fmt.Sprintf("hash-%d", i),
			ExpiresAt:        t0.Add(exp),
			CreatedAt:        t0.Add(-2 * time.Hour),
		}))
	}

	n, err := s.DeleteExpiredSessions(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.GetSessionByRefreshToken(ctx, "hash-2")
	assert.NoError(t, err)
	_, err = s.GetSessionByRefreshToken(ctx, "hash-0")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	n, err = s.DeleteExpiredSessions(ctx, t0)
	require.NoError(t, err)
	assert.Zero(t, n)
}
