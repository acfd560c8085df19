package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/catalog/googlebooks"
	"github.com/chapteredapp/chaptered-server/internal/domain"
	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
)

func TestLibraryService_SaveBook_FinishedAtOnce(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "ada")

	book, err := env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1", Title: ptr("Dune")})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressWant, book.Progress)
	assert.False(t, book.Favourite)
	assert.Nil(t, book.FinishedAt)

	env.clock.Advance(time.Hour)
	t1 := env.clock.Now()
	book, err = env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1", Progress: ptr(domain.ProgressRead)})
	require.NoError(t, err)
	require.NotNil(t, book.FinishedAt)
	assert.True(t, book.FinishedAt.Equal(t1))

	env.clock.Advance(time.Hour)
	book, err = env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1", Progress: ptr(domain.ProgressRead), Rating: ptr(5.0)})
	require.NoError(t, err)
	assert.True(t, book.FinishedAt.Equal(t1))
	assert.Equal(t, 5.0, *book.Rating)
	assert.Equal(t, "Dune", book.Title)

	books, err := env.library.ListBooks(ctx, "ADA")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestLibraryService_SaveBook_InvalidProgress(t *testing.T) {
	env := setupTestEnv(t)
	user := env.signup(t, "ada")

	_, err := env.library.SaveBook(context.Background(), user.ID, domain.BookPatch{ID: "b1", Progress: ptr(domain.Progress("favourite"))})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLibraryService_SaveBook_UnknownUser(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.library.SaveBook(context.Background(), "user-missing", domain.BookPatch{ID: "b1"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestLibraryService_SaveBook_CatalogFill(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "ada")

	env.catalog.volumes["zyTCAlFPjgYC"] = &googlebooks.Volume{
		ID:        "zyTCAlFPjgYC",
		Title:     "The Google Story",
		Authors:   []string{"David A. Vise", "Mark Malseed"},
		Thumbnail: "https://books.google.com/cover.jpg",
	}
	env.placeholders.hashes["https://books.google.com/cover.jpg"] = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"

	book, err := env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "zyTCAlFPjgYC", Title: ptr("My Title")})
	require.NoError(t, err)
	assert.Equal(t, "My Title", book.Title, "client values win")
	assert.Equal(t, "David A. Vise, Mark Malseed", book.Author)
	assert.Equal(t, "https://books.google.com/cover.jpg", book.Thumbnail)
	assert.Equal(t, "LEHV6nWB2yk8pyo0adR*.7kCMdnj", book.ThumbnailBlurHash)
	assert.Equal(t, 1, env.catalog.calls)

	// Existing books are never looked up again, and an unchanged thumbnail keeps its hash.
	_, err = env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "zyTCAlFPjgYC", Thumbnail: ptr("https://books.google.com/cover.jpg")})
	require.NoError(t, err)
	assert.Equal(t, 1, env.catalog.calls)
	assert.Equal(t, 1, env.placeholders.calls)
}

func TestLibraryService_SaveBook_CatalogFailureDoesNotBlock(t *testing.T) {
	env := setupTestEnv(t)
	user := env.signup(t, "ada")
	env.catalog.err = googlebooks.ErrServer

	book, err := env.library.SaveBook(context.Background(), user.ID, domain.BookPatch{ID: "b1"})
	require.NoError(t, err)
	assert.Empty(t, book.Title)
	assert.Equal(t, domain.ProgressWant, book.Progress)
}

func TestLibraryService_SaveBook_ThumbnailChangeClearsStaleHash(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "ada")
	env.placeholders.hashes["https://img/a.jpg"] = "hashA"

	book, err := env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1", Title: ptr("A"), Author: ptr("B"), Thumbnail: ptr("https://img/a.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "hashA", book.ThumbnailBlurHash)

	book, err = env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1", Thumbnail: ptr("https://img/unreachable.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "https://img/unreachable.jpg", book.Thumbnail)
	assert.Empty(t, book.ThumbnailBlurHash)
}

func TestLibraryService_RemoveBook(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "ada")

	_, err := env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1"})
	require.NoError(t, err)
	_, err = env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b2"})
	require.NoError(t, err)

	require.NoError(t, env.library.RemoveBook(ctx, user.ID, "b1"))
	require.NoError(t, env.library.RemoveBook(ctx, user.ID, "b1"))

	books, err := env.library.ListBooks(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "b2", books[0].ID)
}

func TestLibraryService_ListBooks(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "ada")

	books, err := env.library.ListBooks(context.Background(), "ada")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	_, err = env.library.ListBooks(context.Background(), "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestLibraryService_SetBookMood(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "ada")

	_, err := env.library.SaveBook(ctx, user.ID, domain.BookPatch{ID: "b1"})
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	res, err := env.library.SetBookMood(ctx, user.ID, "b1", "Great", "loved the ending")
	require.NoError(t, err)
	assert.Equal(t, "b1", res.ID)
	assert.Equal(t, "Great", res.Mood)
	require.NotNil(t, res.LastMoodAt)
	assert.True(t, res.LastMoodAt.Equal(testNow.Add(time.Minute)))

	// Repeats and empty labels still append.
	_, err = env.library.SetBookMood(ctx, user.ID, "b1", "Great", "")
	require.NoError(t, err)
	_, err = env.library.SetBookMood(ctx, user.ID, "b1", "", "")
	require.NoError(t, err)

	stored, err := env.store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	book := stored.FindBook("b1")
	require.Len(t, book.MoodHistory, 3)
	assert.Equal(t, "loved the ending", book.MoodHistory[0].Note)
	assert.Empty(t, book.Mood)

	_, err = env.library.SetBookMood(ctx, user.ID, "missing", "Good", "")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.EqualError(t, err, "book not found for user")
}
