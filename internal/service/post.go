package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
	"github.com/chapteredapp/chaptered-server/internal/search"
	"github.com/chapteredapp/chaptered-server/internal/store"
	"github.com/chapteredapp/chaptered-server/internal/validation"
)

// AddPostRequest is a new post. Book title and thumbnail are copied from the
// author's shelf when omitted.
type AddPostRequest struct {
	BookID        string `json:"book_id,omitempty" validate:"max=64"`
	BookTitle     string `json:"book_title,omitempty" validate:"max=300"`
	BookThumbnail string `json:"book_thumbnail,omitempty" validate:"omitempty,http_url,max=2048"`
	Content       string `json:"content,omitempty" validate:"max=2000"`
	PhotoURL      string `json:"photo_url,omitempty" validate:"omitempty,http_url,max=2048"`
	MusicURL      string `json:"music_url,omitempty" validate:"omitempty,http_url,max=2048"`
	Location      string `json:"location,omitempty" validate:"max=200"`
}

// PostService writes posts and builds the feeds.
type PostService struct {
	store     store.Store
	search    *SearchService // optional
	validator *validation.Validator
	now       Clock
	logger    *slog.Logger
}

// NewPostService creates a post service. search may be nil.
func NewPostService(s store.Store, search *SearchService, v *validation.Validator, now Clock, logger *slog.Logger) *PostService {
	return &PostService{store: s, search: search, validator: v, now: now, logger: logger}
}

// AddPost appends a post to the user's timeline.
func (s *PostService) AddPost(ctx context.Context, userID string, req AddPostRequest) (*domain.Post, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Content == "" && req.PhotoURL == "" && req.BookID == "" {
		return nil, domainerrors.Validation("a post needs content, a photo or a book")
	}

	postID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate post ID: %w", err)
	}

	var (
		post     domain.Post
		username string
	)
	_, err = s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		now := s.now()
		post = domain.Post{
			ID:            postID.String(),
			BookID:        req.BookID,
			BookTitle:     req.BookTitle,
			BookThumbnail: req.BookThumbnail,
			Content:       req.Content,
			PhotoURL:      req.PhotoURL,
			MusicURL:      req.MusicURL,
			Location:      req.Location,
			CreatedAt:     now,
		}
		if book := u.FindBook(req.BookID); req.BookID != "" && book != nil {
			if post.BookTitle == "" {
				post.BookTitle = book.Title
			}
			if post.BookThumbnail == "" {
				post.BookThumbnail = book.Thumbnail
			}
		}
		u.Posts = append(u.Posts, post)
		u.Touch(now)
		username = u.Username
		return nil
	})
	if err != nil {
		return nil, userLookupError(err)
	}

	if s.search != nil {
		s.search.IndexPost(username, &post)
	}

	s.logger.Debug("post added", "user_id", userID, "post_id", post.ID)
	return &post, nil
}

// ListUserPosts returns username's posts, newest first. Unknown users have
// no posts.
func (s *PostService) ListUserPosts(ctx context.Context, username string) ([]domain.Post, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []domain.Post{}, nil
		}
		return nil, userLookupError(err)
	}

	posts := slices.Clone(user.Posts)
	if posts == nil {
		posts = []domain.Post{}
	}
	domain.SortPostsNewestFirst(posts)
	return posts, nil
}

// ListAllPosts returns every post of every user, newest first.
func (s *PostService) ListAllPosts(ctx context.Context) ([]domain.FeedPost, error) {
	feed := []domain.FeedPost{}
	for user, err := range s.store.ListUsers(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		for _, p := range user.Posts {
			feed = append(feed, domain.FeedPost{Username: user.Username, Post: p})
		}
	}
	domain.SortFeedNewestFirst(feed)
	return feed, nil
}

// SearchPosts runs a full-text search over posts.
func (s *PostService) SearchPosts(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if s.search == nil {
		return nil, domainerrors.Unavailable("post search is not available")
	}
	return s.search.Search(ctx, params)
}
