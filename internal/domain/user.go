// Package domain holds the reading tracker's entities: users with their
// shelves, posts and mood logs, plus sessions and derived statistics.
package domain

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Profile is the public part of a user.
type Profile struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// User is the aggregate root. Books, posts and moods are embedded and
// persisted together with the user record.
type User struct {
	Syncable
	Username     string      `json:"username"` // normalized, unique
	Email        string      `json:"email,omitempty"`
	PasswordHash string      `json:"password_hash,omitempty"`
	Profile      Profile     `json:"profile"`
	Books        []Book      `json:"books"`
	Posts        []Post      `json:"posts"`
	Moods        []MoodEntry `json:"moods"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
}

// NewUser creates an empty user with initialised collections.
func NewUser(id, username string, now time.Time) *User {
	u := &User{
		Syncable: Syncable{ID: id},
		Username: NormalizeUsername(username),
		Books:    []Book{},
		Posts:    []Post{},
		Moods:    []MoodEntry{},
	}
	u.InitTimestamps(now)
	return u
}

// FindBook returns a pointer into u.Books, or nil.
func (u *User) FindBook(id string) *Book {
	for i := range u.Books {
		if u.Books[i].ID == id {
			return &u.Books[i]
		}
	}
	return nil
}

// CurrentMood is the value of the most recent profile mood entry.
func (u *User) CurrentMood() (Mood, bool) {
	if len(u.Moods) == 0 {
		return "", false
	}
	return u.Moods[len(u.Moods)-1].Value, true
}

// NormalizeUsername returns the lookup key for a username:
// NFKC-normalised, trimmed and lower-cased.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// ValidUsername reports whether s, once normalised, is non-empty and only
// contains letters, digits, '.', '_' and '-'.
func ValidUsername(s string) bool {
	n := NormalizeUsername(s)
	if n == "" {
		return false
	}
	for _, r := range n {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '.', '_', '-':
			continue
		}
		return false
	}
	return true
}
