package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chapteredapp/chaptered-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/search",
		Summary:     "Search posts",
		Description: "Full-text search over post content, book titles and locations",
		Tags:        []string{"Posts"},
	}, s.handleSearchPosts)
}

// SearchPostsInput holds the search query parameters.
type SearchPostsInput struct {
	Query    string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search text"`
	Username string `query:"username" maxLength:"64" doc:"Only posts by this user"`
	Limit    int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Page size"`
	Offset   int    `query:"offset" minimum:"0" doc:"Hits to skip"`
	Sort     string `query:"sort" default:"relevance" enum:"relevance,recent" doc:"Order by relevance or newest first"`
}

// SearchPostsOutput wraps search results for Huma.
type SearchPostsOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearchPosts(ctx context.Context, input *SearchPostsInput) (*SearchPostsOutput, error) {
	result, err := s.services.Post.SearchPosts(ctx, search.SearchParams{
		Query:    input.Query,
		Username: input.Username,
		Limit:    input.Limit,
		Offset:   input.Offset,
		SortBy:   input.Sort,
	})
	if err != nil {
		return nil, err
	}
	return &SearchPostsOutput{Body: *result}, nil
}
