package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/auth"
	"github.com/chapteredapp/chaptered-server/internal/catalog/googlebooks"
	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/search"
	"github.com/chapteredapp/chaptered-server/internal/store"
	"github.com/chapteredapp/chaptered-server/internal/validation"
)

// testClock is a settable clock shared by every service in a test.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeCatalog struct {
	volumes map[string]*googlebooks.Volume
	err     error
	calls   int
}

func (f *fakeCatalog) Search(_ context.Context, query string, _ int) ([]googlebooks.Volume, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []googlebooks.Volume
	for _, v := range f.volumes {
		if v.Title == query {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Volume(_ context.Context, id string) (*googlebooks.Volume, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.volumes[id]
	if !ok {
		return nil, googlebooks.ErrNotFound
	}
	return v, nil
}

type fakePlaceholders struct {
	hashes map[string]string
	calls  int
}

func (f *fakePlaceholders) BlurHash(_ context.Context, url string) (string, error) {
	f.calls++
	if h, ok := f.hashes[url]; ok {
		return h, nil
	}
	return "", io.ErrUnexpectedEOF
}

// testEnv wires every service against an in-memory Badger store.
type testEnv struct {
	store        store.Store
	clock        *testClock
	tokens       *auth.TokenService
	catalog      *fakeCatalog
	placeholders *fakePlaceholders
	index        *search.PostIndex

	auth     *AuthService
	sessions *SessionService
	library  *LibraryService
	profiles *ProfileService
	stats    *StatsService
	posts    *PostService
	search   *SearchService
	catalogs *CatalogService
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.OpenInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewPostIndex(search.Options{InMemory: true, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	clock := &testClock{t: testNow}

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{1}, 32), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	tokens = tokens.WithClock(clock.Now)

	hasher := auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	v := validation.New()

	env := &testEnv{
		store:        s,
		clock:        clock,
		tokens:       tokens,
		catalog:      &fakeCatalog{volumes: map[string]*googlebooks.Volume{}},
		placeholders: &fakePlaceholders{hashes: map[string]string{}},
		index:        index,
	}

	env.sessions = NewSessionService(s, tokens, clock.Now, logger)
	env.auth = NewAuthService(s, tokens, env.sessions, hasher, v, clock.Now, logger)
	env.library = NewLibraryService(s, env.catalog, env.placeholders, clock.Now, logger)
	env.profiles = NewProfileService(s, v, clock.Now, logger)
	env.stats = NewStatsService(s, 30, clock.Now)
	env.search = NewSearchService(index, s, logger)
	env.posts = NewPostService(s, env.search, v, clock.Now, logger)
	env.catalogs = NewCatalogService(env.catalog, logger)

	return env
}

// signup creates a user with a fixed password and returns it.
func (e *testEnv) signup(t *testing.T, username string) *domain.User {
	t.Helper()
	resp, err := e.auth.Signup(context.Background(), SignupRequest{
		Username: username,
		Password: "correct-horse",
		Name:     username,
	}, ClientInfo{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return resp.User
}

func ptr[T any](v T) *T { return &v }
