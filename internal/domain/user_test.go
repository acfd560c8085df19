package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	tests := map[string]string{
		"Ada":              "ada",
		"  bookworm  ":     "bookworm",
		"\uff32\uff25\uff21\uff24\uff25\uff32": "reader", // fullwidth folds under NFKC
		"J\u00fcrgen":     "j\u00fcrgen",
		"Ju\u0308rgen":    "j\u00fcrgen", // combining diaeresis composes
		"already.lower_42": "already.lower_42",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeUsername(in), in)
	}
}

func TestValidUsername(t *testing.T) {
	for _, ok := range []string{"ada", "Ada.Lovelace", "reader_1", "jürgen", "a-b"} {
		assert.True(t, ValidUsername(ok), ok)
	}
	for _, bad := range []string{"", "   ", "ada lovelace", "ada@home", "a/b"} {
		assert.False(t, ValidUsername(bad), bad)
	}
}

func TestNewUser(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	u := NewUser("user-1", " Ada ", now)

	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, now, u.CreatedAt)
	assert.Equal(t, now, u.UpdatedAt)
	assert.NotNil(t, u.Books)
	assert.NotNil(t, u.Posts)
	assert.NotNil(t, u.Moods)
}

func TestUser_FindBook(t *testing.T) {
	u := &User{Books: []Book{{ID: "b1", Title: "Dune"}, {ID: "b2"}}}

	b := u.FindBook("b1")
	require.NotNil(t, b)
	b.Title = "Dune Messiah"
	assert.Equal(t, "Dune Messiah", u.Books[0].Title, "FindBook returns a pointer into the slice")

	assert.Nil(t, u.FindBook("missing"))
}

func TestUser_CurrentMood(t *testing.T) {
	u := &User{}
	_, ok := u.CurrentMood()
	assert.False(t, ok)

	u.Moods = []MoodEntry{{Value: MoodGood}, {Value: MoodLow}}
	m, ok := u.CurrentMood()
	assert.True(t, ok)
	assert.Equal(t, MoodLow, m)
}

func TestBook_LastMoodAt(t *testing.T) {
	b := &Book{}
	assert.Nil(t, b.LastMoodAt())

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.MoodHistory = []BookMoodEntry{{Mood: "tense", At: at.Add(-time.Hour)}, {Mood: "hopeful", At: at}}
	require.NotNil(t, b.LastMoodAt())
	assert.Equal(t, at, *b.LastMoodAt())
}

func TestSession_IsExpired(t *testing.T) {
	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: exp}

	assert.False(t, s.IsExpired(exp.Add(-time.Second)))
	assert.True(t, s.IsExpired(exp))
	assert.True(t, s.IsExpired(exp.Add(time.Second)))
}
