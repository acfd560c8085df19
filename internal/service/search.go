package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/search"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

// SearchService keeps the post index in step with the store.
type SearchService struct {
	index  *search.PostIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a search service.
func NewSearchService(index *search.PostIndex, s store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, store: s, logger: logger}
}

// IndexPost adds a post to the index. Failures are logged; the index can be
// rebuilt from the store.
func (s *SearchService) IndexPost(username string, post *domain.Post) {
	if err := s.index.IndexPost(search.NewPostDocument(username, post)); err != nil {
		s.logger.Warn("failed to index post", "post_id", post.ID, "error", err)
	}
}

// Search queries the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return result, nil
}

// Reindex rebuilds the index from every user's posts and returns the number
// of posts indexed.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	var docs []*search.PostDocument
	for user, err := range s.store.ListUsers(ctx) {
		if err != nil {
			return 0, fmt.Errorf("list users: %w", err)
		}
		for i := range user.Posts {
			docs = append(docs, search.NewPostDocument(user.Username, &user.Posts[i]))
		}
	}

	if err := s.index.IndexPosts(docs); err != nil {
		return 0, fmt.Errorf("index posts: %w", err)
	}

	s.logger.Info("post index rebuilt", "posts", len(docs))
	return len(docs), nil
}

// EnsureIndexed reindexes when the index is empty, e.g. after a mapping
// change dropped it. It is a no-op otherwise.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.Reindex(ctx)
	return err
}

// DocumentCount returns the number of indexed posts.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
