package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func decodeUser(data string) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

func (s *Store) getUserWhere(ctx context.Context, q queryer, where string, arg any) (*domain.User, error) {
	var data string
	err := q.QueryRowContext(ctx, "SELECT data FROM users WHERE "+where, arg).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return decodeUser(data)
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, domain.NormalizeUsername(user.Username), string(data),
		formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	switch {
	case isUniqueViolation(err, "users.username"):
		return store.ErrUsernameTaken
	case isUniqueViolation(err, "users.id"):
		return store.ErrAlreadyExists
	case err != nil:
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserWhere(ctx, s.db, "id = ?", id)
}

// GetUserByUsername retrieves a user by normalised username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserWhere(ctx, s.db, "username = ?", domain.NormalizeUsername(username))
}

// UpdateUser applies fn to the stored user inside one transaction.
func (s *Store) UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	var out *domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := s.getUserWhere(ctx, tx, "id = ?", id)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}

		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET username = ?, data = ?, updated_at = ? WHERE id = ?`,
			domain.NormalizeUsername(u.Username), string(data), formatTime(u.UpdatedAt), id,
		)
		if isUniqueViolation(err, "users.username") {
			return store.ErrUsernameTaken
		}
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers iterates over all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) iter.Seq2[*domain.User, error] {
	return func(yield func(*domain.User, error) bool) {
		rows, err := s.db.QueryContext(ctx, `SELECT data FROM users ORDER BY created_at, id`)
		if err != nil {
			yield(nil, fmt.Errorf("list users: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var data string
			if err := rows.Scan(&data); err != nil {
				yield(nil, fmt.Errorf("scan user: %w", err))
				return
			}
			u, err := decodeUser(data)
			if !yield(u, err) || err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate users: %w", err))
		}
	}
}
