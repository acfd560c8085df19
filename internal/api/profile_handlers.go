package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Get current user",
		Description: "Returns the signed-in user with shelf, posts and mood log",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me/profile",
		Summary:     "Update profile",
		Description: "Changes the display name and bio. Omitted fields are kept.",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "addMood",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/moods",
		Summary:     "Log a mood",
		Description: "Appends a mood (Great, Good, Average, Low, Bad) to the profile log and returns the refreshed stats",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleAddMood)
}

// UserOutput wraps the current user for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileInput wraps the profile patch for Huma.
type UpdateProfileInput struct {
	Body service.UpdateProfileRequest
}

// AddMoodRequest is the body of a profile mood entry.
type AddMoodRequest struct {
	Mood string `json:"mood" enum:"Great,Good,Average,Low,Bad" doc:"Mood label"`
}

// AddMoodInput wraps the mood request for Huma.
type AddMoodInput struct {
	Body AddMoodRequest
}

// StatsOutput wraps profile stats for Huma.
type StatsOutput struct {
	Body domain.Stats
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.UpdateProfile(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleAddMood(ctx context.Context, input *AddMoodInput) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Profile.AddMood(ctx, userID, input.Body.Mood)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{Body: *stats}, nil
}
