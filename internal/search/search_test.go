package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func setupTestIndex(t *testing.T) *PostIndex {
	t.Helper()
	index, err := NewPostIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func seed(t *testing.T, index *PostIndex) {
	t.Helper()
	posts := []struct {
		username string
		post     domain.Post
	}{
		{"Ada", domain.Post{ID: "p1", BookID: "b1", BookTitle: "The Hobbit", Content: "Dragons and riddles in the dark", Location: "Oxford", CreatedAt: base}},
		{"ada", domain.Post{ID: "p2", BookID: "b2", BookTitle: "Dune", Content: "Spice must flow", CreatedAt: base.Add(time.Hour)}},
		{"grace", domain.Post{ID: "p3", BookID: "b1", BookTitle: "The Hobbit", Content: "Second breakfast is underrated", Location: "Shire", CreatedAt: base.Add(2 * time.Hour)}},
	}

	docs := make([]*PostDocument, 0, len(posts))
	for i := range posts {
		docs = append(docs, NewPostDocument(posts[i].username, &posts[i].post))
	}
	require.NoError(t, index.IndexPosts(docs))
}

func hitIDs(res *SearchResult) []string {
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestNewPostIndex_Empty(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestPostIndex_IndexReplaces(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	edited := domain.Post{ID: "p2", BookID: "b2", BookTitle: "Dune", Content: "Fear is the mind-killer", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, index.IndexPost(NewPostDocument("ada", &edited)))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	res, err := index.Search(context.Background(), SearchParams{Query: "spice"})
	require.NoError(t, err)
	assert.Empty(t, hitIDs(res))

	res, err = index.Search(context.Background(), SearchParams{Query: "fear"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, hitIDs(res))
}

func TestPostIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)
	ctx := context.Background()

	t.Run("content match with stored fields", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "dragon"})
		require.NoError(t, err)
		require.Equal(t, []string{"p1"}, hitIDs(res))

		hit := res.Hits[0]
		assert.Equal(t, "ada", hit.Username)
		assert.Equal(t, "b1", hit.BookID)
		assert.Equal(t, "The Hobbit", hit.BookTitle)
		assert.Equal(t, "Oxford", hit.Location)
		assert.True(t, hit.CreatedAt.Equal(base))
		assert.Contains(t, hit.Highlights, "content")
	})

	t.Run("book title", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "hobbit", SortBy: SortRecent})
		require.NoError(t, err)
		assert.Equal(t, []string{"p3", "p1"}, hitIDs(res))
	})

	t.Run("typo tolerance", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "spise"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p2"}, hitIDs(res))
	})

	t.Run("prefix", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "breakf"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p3"}, hitIDs(res))
	})

	t.Run("username filter is case insensitive", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Username: "ADA", SortBy: SortRecent})
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p1"}, hitIDs(res))

		res, err = index.Search(ctx, SearchParams{Query: "hobbit", Username: "grace"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p3"}, hitIDs(res))
	})

	t.Run("match all newest first", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{SortBy: SortRecent})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), res.Total)
		assert.Equal(t, []string{"p3", "p2", "p1"}, hitIDs(res))
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{SortBy: SortRecent, Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), res.Total)
		assert.Equal(t, []string{"p2"}, hitIDs(res))
	})

	t.Run("no match", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "zeppelin"})
		require.NoError(t, err)
		assert.Empty(t, res.Hits)
	})
}

func TestPostIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestPostIndex_InMemory(t *testing.T) {
	index, err := NewPostIndex(Options{InMemory: true})
	require.NoError(t, err)
	defer index.Close()

	seed(t, index)
	require.NoError(t, index.Rebuild())
	seed(t, index)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestNewPostIndex_ReopenAndVersionChange(t *testing.T) {
	dir := t.TempDir()

	index, err := NewPostIndex(Options{DataPath: dir})
	require.NoError(t, err)
	seed(t, index)
	require.NoError(t, index.Close())

	index, err = NewPostIndex(Options{DataPath: dir})
	require.NoError(t, err)
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count, "same version keeps documents")
	require.NoError(t, index.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.version"), []byte("0"), 0o600))

	index, err = NewPostIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer index.Close()
	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count, "outdated mapping is dropped")

	version, err := os.ReadFile(filepath.Join(dir, "posts.version"))
	require.NoError(t, err)
	assert.Equal(t, mappingVersion, string(version))
}
