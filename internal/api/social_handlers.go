package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addPost",
		Method:        http.MethodPost,
		Path:          "/api/v1/me/posts",
		Summary:       "Create post",
		Description:   "Publishes a post. Book title and thumbnail are taken from the shelf when omitted.",
		Tags:          []string{"Posts"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/posts",
		Summary:     "List a user's posts",
		Description: "Newest first. Unknown users have no posts.",
		Tags:        []string{"Posts"},
	}, s.handleGetUserPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAllPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "Global feed",
		Description: "Every post from every user, newest first",
		Tags:        []string{"Posts"},
	}, s.handleGetAllPosts)
}

// AddPostInput wraps the post request for Huma.
type AddPostInput struct {
	Body service.AddPostRequest
}

// PostOutput wraps a post for Huma.
type PostOutput struct {
	Body domain.Post
}

// PostsOutput wraps a user's posts for Huma.
type PostsOutput struct {
	Body []domain.Post
}

// FeedOutput wraps the global feed for Huma.
type FeedOutput struct {
	Body []domain.FeedPost
}

func (s *Server) handleAddPost(ctx context.Context, input *AddPostInput) (*PostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Post.AddPost(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: *post}, nil
}

func (s *Server) handleGetUserPosts(ctx context.Context, input *UsernameInput) (*PostsOutput, error) {
	posts, err := s.services.Post.ListUserPosts(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &PostsOutput{Body: posts}, nil
}

func (s *Server) handleGetAllPosts(ctx context.Context, _ *struct{}) (*FeedOutput, error) {
	feed, err := s.services.Post.ListAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	return &FeedOutput{Body: feed}, nil
}
