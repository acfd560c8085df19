package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

const (
	userPrefix    = "user:"
	sessionPrefix = "session:"

	maxConflictRetries = 5
)

// Badger is the default Store backed by an embedded Badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger

	users    *Entity[domain.User]
	sessions *Entity[domain.Session]
}

var _ Store = (*Badger)(nil)

// Open opens (or creates) a Badger store at path.
func Open(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's own logging is too chatty
	opts.SyncWrites = true       // fsync on commit
	opts.CompactL0OnClose = true // faster next startup

	return open(opts, logger)
}

// OpenInMemory opens a Badger store that keeps everything in memory.
func OpenInMemory(logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Badger{db: db, logger: logger}

	s.users = NewEntity[domain.User](s, userPrefix, ErrUserNotFound).
		WithIndex("username",
			func(u *domain.User) []string { return []string{domain.NormalizeUsername(u.Username)} },
			domain.NormalizeUsername,
			ErrUsernameTaken,
		)

	s.sessions = NewEntity[domain.Session](s, sessionPrefix, ErrSessionNotFound).
		WithIndex("token",
			func(sess *domain.Session) []string { return []string{sess.RefreshTokenHash} },
			nil,
			nil,
		)

	logger.Info("badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	return s, nil
}

// Ping reports whether the database is open.
func (s *Badger) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// Close flushes and closes the database.
func (s *Badger) Close() error {
	s.logger.Info("closing database connection")
	return s.db.Close()
}

// update runs fn in a read-write transaction, retrying when Badger reports a
// conflict with a concurrent transaction.
func (s *Badger) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := range maxConflictRetries {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug("badger transaction conflict, retrying", "attempt", attempt+1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 5 * time.Millisecond):
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", maxConflictRetries, err)
}
