package api

import (
	"time"

	"github.com/chapteredapp/chaptered-server/internal/color"
	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

// UserResponse is the signed-in user's own view of their account.
type UserResponse struct {
	ID          string             `json:"id" doc:"User ID"`
	Username    string             `json:"username" doc:"Unique username"`
	Email       string             `json:"email,omitempty" doc:"Email address"`
	AvatarColor string             `json:"avatar_color" doc:"Placeholder avatar colour (#RRGGBB)"`
	Profile     domain.Profile     `json:"profile" doc:"Public profile"`
	Books       []domain.Book      `json:"books" doc:"Books on the shelf"`
	Posts       []domain.Post      `json:"posts" doc:"Posts in insertion order"`
	Moods       []domain.MoodEntry `json:"moods" doc:"Profile mood log"`
	CreatedAt   time.Time          `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time          `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt *time.Time         `json:"last_login_at,omitempty" doc:"Last login timestamp"`
}

// AuthResponse contains authentication tokens and user info.
type AuthResponse struct {
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Refresh token"`
	SessionID    string       `json:"session_id" doc:"Session identifier"`
	TokenType    string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn    int          `json:"expires_in" doc:"Access token expiry in seconds"`
	ExpiresAt    time.Time    `json:"expires_at" doc:"Access token expiry time"`
	User         UserResponse `json:"user" doc:"Authenticated user"`
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// mapUser drops credentials and fills nil collections so clients always see arrays.
func mapUser(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AvatarColor: color.ForUsername(u.Username),
		Profile:     u.Profile,
		Books:       u.Books,
		Posts:       u.Posts,
		Moods:       u.Moods,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
	if resp.Books == nil {
		resp.Books = []domain.Book{}
	}
	if resp.Posts == nil {
		resp.Posts = []domain.Post{}
	}
	if resp.Moods == nil {
		resp.Moods = []domain.MoodEntry{}
	}
	return resp
}

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SessionID:    resp.SessionID,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		ExpiresAt:    resp.ExpiresAt,
		User:         mapUser(resp.User),
	}
}
