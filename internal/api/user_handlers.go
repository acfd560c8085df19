package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getUserBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/books",
		Summary:     "List a user's books",
		Tags:        []string{"Users"},
	}, s.handleGetUserBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/profile",
		Summary:     "Get a user's profile",
		Description: "Returns the public profile with shelf and stats",
		Tags:        []string{"Users"},
	}, s.handleGetUserProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/stats",
		Summary:     "Get a user's reading stats",
		Description: "Books finished this year, dominant mood, current mood and the mood average over a trailing window. " +
			"Users with nothing recorded get the no-data values.",
		Tags: []string{"Users"},
	}, s.handleGetUserStats)
}

// UsernameInput identifies a user by username.
type UsernameInput struct {
	Username string `path:"username" maxLength:"64" doc:"Username (case-insensitive)"`
}

// UserStatsInput selects the mood average window.
type UserStatsInput struct {
	Username   string `path:"username" maxLength:"64" doc:"Username (case-insensitive)"`
	WindowDays int    `query:"window_days" minimum:"0" maximum:"365" doc:"Trailing window for the mood average in days; 0 uses the server default"`
}

// BooksOutput wraps a shelf for Huma.
type BooksOutput struct {
	Body []domain.Book
}

// ProfileOutput wraps a public profile for Huma.
type ProfileOutput struct {
	Body service.ProfileView
}

// UserStatsOutput wraps stats for Huma.
type UserStatsOutput struct {
	Body service.UserStats
}

func (s *Server) handleGetUserBooks(ctx context.Context, input *UsernameInput) (*BooksOutput, error) {
	books, err := s.services.Library.ListBooks(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *UsernameInput) (*ProfileOutput, error) {
	view, err := s.services.Profile.GetProfile(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *view}, nil
}

func (s *Server) handleGetUserStats(ctx context.Context, input *UserStatsInput) (*UserStatsOutput, error) {
	stats, err := s.services.Stats.UserStats(ctx, input.Username, input.WindowDays)
	if err != nil {
		return nil, err
	}
	return &UserStatsOutput{Body: *stats}, nil
}
