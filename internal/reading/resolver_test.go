package reading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/errors"
)

var t0 = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func progress(p domain.Progress) *domain.Progress { return &p }

func countID(books []domain.Book, id string) int {
	n := 0
	for _, b := range books {
		if b.ID == id {
			n++
		}
	}
	return n
}

func TestSaveBook_InsertDefaults(t *testing.T) {
	books, got := SaveBook(nil, domain.BookPatch{ID: "b1", Title: ptr("Dune")}, t0)

	require.Len(t, books, 1)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, domain.ProgressWant, got.Progress)
	assert.False(t, got.Favourite)
	assert.Nil(t, got.FinishedAt)
	assert.Nil(t, got.Rating)
}

func TestSaveBook_InsertAsReadSetsFinishedAt(t *testing.T) {
	_, got := SaveBook(nil, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressRead)}, t0)

	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, t0, *got.FinishedAt)
}

func TestSaveBook_SameIDKeepsOneEntry(t *testing.T) {
	var books []domain.Book
	patches := []domain.BookPatch{
		{ID: "b1", Title: ptr("Dune")},
		{ID: "b2"},
		{ID: "b1", Progress: progress(domain.ProgressReading)},
		{ID: "b1", Rating: ptr(3.5)},
		{ID: "b1", Favourite: ptr(true)},
	}
	for i, p := range patches {
		books, _ = SaveBook(books, p, t0.Add(time.Duration(i)*time.Minute))
	}

	assert.Equal(t, 1, countID(books, "b1"))
	assert.Equal(t, 1, countID(books, "b2"))
	assert.Len(t, books, 2)
	assert.Equal(t, "b1", books[0].ID, "insertion order is kept")
}

func TestSaveBook_FinishedAtSetOnceOnTransition(t *testing.T) {
	t1 := t0.Add(24 * time.Hour)
	t2 := t1.Add(24 * time.Hour)

	books, got := SaveBook(nil, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressWant)}, t0)
	assert.Nil(t, got.FinishedAt)

	books, got = SaveBook(books, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressRead)}, t1)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, t1, *got.FinishedAt)

	books, got = SaveBook(books, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressRead), Rating: ptr(5.0)}, t2)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, t1, *got.FinishedAt)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 5.0, *got.Rating)
	assert.Len(t, books, 1)
}

func TestSaveBook_RereadResetsFinishedAt(t *testing.T) {
	t1, t2, t3 := t0.Add(time.Hour), t0.Add(2*time.Hour), t0.Add(3*time.Hour)

	books, _ := SaveBook(nil, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressRead)}, t1)
	books, got := SaveBook(books, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressReading)}, t2)
	require.NotNil(t, got.FinishedAt, "leaving read keeps the old timestamp")
	assert.Equal(t, t1, *got.FinishedAt)

	_, got = SaveBook(books, domain.BookPatch{ID: "b1", Progress: progress(domain.ProgressRead)}, t3)
	assert.Equal(t, t3, *got.FinishedAt)
}

func TestSaveBook_ReadWithoutFinishedAtGetsOne(t *testing.T) {
	books := []domain.Book{{ID: "b1", Progress: domain.ProgressRead}}

	_, got := SaveBook(books, domain.BookPatch{ID: "b1", Rating: ptr(4.0)}, t0)

	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, t0, *got.FinishedAt)
}

func TestSaveBook_MergePreservesUnspecifiedFields(t *testing.T) {
	books := []domain.Book{{ID: "b1", Title: "X", Progress: domain.ProgressReading}}

	books, got := SaveBook(books, domain.BookPatch{ID: "b1", Rating: ptr(4.0)}, t0)

	want := domain.Book{ID: "b1", Title: "X", Progress: domain.ProgressReading, Rating: ptr(4.0)}
	assert.Equal(t, want, got)
	assert.Equal(t, want, books[0])
}

func TestSaveBook_MergeDoesNotResetFavourite(t *testing.T) {
	books := []domain.Book{{ID: "b1", Progress: domain.ProgressRead, Favourite: true, FinishedAt: &t0}}

	_, got := SaveBook(books, domain.BookPatch{ID: "b1", Title: ptr("Emma")}, t0.Add(time.Hour))

	assert.True(t, got.Favourite)
	assert.Equal(t, domain.ProgressRead, got.Progress)
	assert.Equal(t, t0, *got.FinishedAt)
}

func TestSaveBook_MoodHistoryIsReplacedNotMerged(t *testing.T) {
	books := []domain.Book{{
		ID:          "b1",
		MoodHistory: []domain.BookMoodEntry{{Mood: "calm", At: t0}, {Mood: "tense", At: t0}},
	}}
	incoming := []domain.BookMoodEntry{{Mood: "joyful", At: t0.Add(time.Hour)}}

	books, got := SaveBook(books, domain.BookPatch{ID: "b1", MoodHistory: incoming}, t0)

	assert.Equal(t, incoming, got.MoodHistory)
	incoming[0].Mood = "changed"
	assert.Equal(t, "joyful", books[0].MoodHistory[0].Mood, "history is copied")
}

func TestSaveBook_EmptyIDAlwaysInserts(t *testing.T) {
	books, _ := SaveBook(nil, domain.BookPatch{Title: ptr("untitled")}, t0)
	books, _ = SaveBook(books, domain.BookPatch{Title: ptr("untitled")}, t0)

	assert.Len(t, books, 2)
}

func TestRemoveBook(t *testing.T) {
	books := func() []domain.Book {
		return []domain.Book{{ID: "a"}, {ID: "x"}, {ID: "b"}, {ID: "x"}}
	}

	once := RemoveBook(books(), "x")
	twice := RemoveBook(RemoveBook(books(), "x"), "x")

	assert.Equal(t, []domain.Book{{ID: "a"}, {ID: "b"}}, once)
	assert.Equal(t, once, twice)
	assert.Len(t, RemoveBook(books(), "missing"), 4)
	assert.Empty(t, RemoveBook(nil, "x"))
}

func TestSetBookMood_AlwaysAppends(t *testing.T) {
	b := &domain.Book{ID: "b1"}

	SetBookMood(b, "cosy", "", t0)
	SetBookMood(b, "cosy", "rainy day", t0.Add(time.Minute))
	SetBookMood(b, "", "", t0.Add(2*time.Minute))

	assert.Equal(t, "", b.Mood)
	require.Len(t, b.MoodHistory, 3)
	assert.Equal(t, domain.BookMoodEntry{Mood: "cosy", Note: "rainy day", At: t0.Add(time.Minute)}, b.MoodHistory[1])
	assert.Equal(t, t0.Add(2*time.Minute), *b.LastMoodAt())
}

func TestAddProfileMood(t *testing.T) {
	u := &domain.User{}

	require.NoError(t, AddProfileMood(u, "Great", t0))
	require.NoError(t, AddProfileMood(u, "Great", t0.Add(time.Hour)))

	assert.Equal(t, []domain.MoodEntry{
		{Value: domain.MoodGreat, At: t0},
		{Value: domain.MoodGreat, At: t0.Add(time.Hour)},
	}, u.Moods)
}

func TestAddProfileMood_RejectsUnknownLabel(t *testing.T) {
	u := &domain.User{Moods: []domain.MoodEntry{{Value: domain.MoodLow, At: t0}}}
	before := append([]domain.MoodEntry(nil), u.Moods...)

	err := AddProfileMood(u, "Euphoric", t0.Add(time.Hour))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, before, u.Moods)
}
