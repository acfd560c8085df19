package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/search"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

func TestPosts(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signup(t, "ada")
	grace := ts.signup(t, "grace")

	resp := ts.api.Put("/api/v1/me/books/vol-1", bearer(ada.AccessToken), map[string]any{
		"title":     "Dune",
		"thumbnail": "https://books.example/dune.jpg",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/me/posts", bearer(ada.AccessToken), map[string]any{
		"book_id": "vol-1",
		"content": "Fear is the mind-killer",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	post := decodeEnvelope[domain.Post](t, resp.Body).Data
	assert.Equal(t, "Dune", post.BookTitle)
	assert.Equal(t, "https://books.example/dune.jpg", post.BookThumbnail)

	resp = ts.api.Post("/api/v1/me/posts", bearer(grace.AccessToken), map[string]any{
		"content":  "Debugging by the sea",
		"location": "Arlington",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/posts")
	require.Equal(t, http.StatusOK, resp.Code)
	feed := decodeEnvelope[[]domain.FeedPost](t, resp.Body).Data
	require.Len(t, feed, 2)
	assert.Equal(t, "grace", feed[0].Username)
	assert.Equal(t, "ada", feed[1].Username)

	resp = ts.api.Get("/api/v1/users/ada/posts")
	require.Equal(t, http.StatusOK, resp.Code)
	posts := decodeEnvelope[[]domain.Post](t, resp.Body).Data
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	resp = ts.api.Get("/api/v1/users/nobody/posts")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, resp.Body.String())
}

func TestAddPost_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signup(t, "ada")

	resp := ts.api.Post("/api/v1/me/posts", bearer(ada.AccessToken), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/me/posts", bearer(ada.AccessToken), map[string]any{"content": "hi", "photo_url": "ftp://nope"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope[any](t, resp.Body)
	assert.Contains(t, env.Details, "photo_url")

	resp = ts.api.Post("/api/v1/me/posts", map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSearchPosts(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signup(t, "ada")
	grace := ts.signup(t, "grace")

	for _, p := range []struct{ token, content string }{
		{ada.AccessToken, "Rereading the Hobbit by the fire"},
		{grace.AccessToken, "The hobbit chapters on riddles are the best"},
		{grace.AccessToken, "Started a compiler textbook"},
	} {
		resp := ts.api.Post("/api/v1/me/posts", bearer(p.token), map[string]any{"content": p.content})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp := ts.api.Get("/api/v1/posts/search?q=hobbit")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeEnvelope[search.SearchResult](t, resp.Body).Data
	assert.Equal(t, uint64(2), result.Total)

	resp = ts.api.Get("/api/v1/posts/search?q=hobbit&username=Grace&sort=recent")
	require.Equal(t, http.StatusOK, resp.Code)
	result = decodeEnvelope[search.SearchResult](t, resp.Body).Data
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "grace", result.Hits[0].Username)

	resp = ts.api.Get("/api/v1/posts/search")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/v1/posts/search?q=hobbit&sort=oldest")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestProfileAndStats(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signup(t, "ada")

	resp := ts.api.Patch("/api/v1/me/profile", bearer(ada.AccessToken), map[string]any{"bio": "Counting engines"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	me := decodeEnvelope[UserResponse](t, resp.Body).Data
	assert.Equal(t, "Counting engines", me.Profile.Bio)
	assert.Equal(t, "Reader ada", me.Profile.Name, "name kept")

	for _, mood := range []string{"Great", "Good", "Great"} {
		resp = ts.api.Post("/api/v1/me/moods", bearer(ada.AccessToken), map[string]any{"mood": mood})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}
	stats := decodeEnvelope[domain.Stats](t, resp.Body).Data
	assert.Equal(t, "Great (30d)", stats.MoodTracker)
	assert.Equal(t, "Great", stats.CurrentMood)

	resp = ts.api.Post("/api/v1/me/moods", bearer(ada.AccessToken), map[string]any{"mood": "Meh"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Put("/api/v1/me/books/vol-1", bearer(ada.AccessToken), map[string]any{"title": "Dune", "progress": "read"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/users/ada/stats?window_days=7")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	userStats := decodeEnvelope[service.UserStats](t, resp.Body).Data
	assert.Equal(t, 1, userStats.BooksThisYear)
	assert.Equal(t, 7, userStats.AvgMoodWindowDays)
	assert.Equal(t, 3, userStats.AvgMoodCount)
	require.NotNil(t, userStats.AvgMoodScore)
	assert.InDelta(t, 4.67, *userStats.AvgMoodScore, 0.01)

	resp = ts.api.Get("/api/v1/users/ada/profile")
	require.Equal(t, http.StatusOK, resp.Code)
	view := decodeEnvelope[service.ProfileView](t, resp.Body).Data
	assert.Equal(t, "ada", view.Username)
	assert.Len(t, view.Books, 1)
	assert.Equal(t, 1, view.Stats.BooksThisYear)
	assert.NotContains(t, resp.Body.String(), "password")

	resp = ts.api.Get("/api/v1/users/nobody/profile")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/users/nobody/stats")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp.Body).Code)

	ts.signup(t, "grace")
	resp = ts.api.Get("/api/v1/users/grace/stats")
	require.Equal(t, http.StatusOK, resp.Code)
	empty := decodeEnvelope[service.UserStats](t, resp.Body).Data
	assert.Equal(t, domain.NoData, empty.MoodTracker)
	assert.Nil(t, empty.AvgMoodScore)
	assert.Equal(t, 30, empty.AvgMoodWindowDays)
}
