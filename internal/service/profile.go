package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/color"
	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/reading"
	"github.com/chapteredapp/chaptered-server/internal/store"
	"github.com/chapteredapp/chaptered-server/internal/validation"
)

// UpdateProfileRequest changes the public profile. Nil fields are kept.
type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Bio  *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// ProfileView is a user's public page: profile, shelf and stats.
type ProfileView struct {
	Username    string         `json:"username"`
	AvatarColor string         `json:"avatar_color"`
	Profile     domain.Profile `json:"profile"`
	Books       []domain.Book  `json:"books"`
	Stats       domain.Stats   `json:"stats"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ProfileService reads and edits profiles and the profile mood log.
type ProfileService struct {
	store     store.Store
	validator *validation.Validator
	now       Clock
	logger    *slog.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(s store.Store, v *validation.Validator, now Clock, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: s, validator: v, now: now, logger: logger}
}

// Me returns the signed-in user.
func (s *ProfileService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// GetProfile returns the public view of username.
func (s *ProfileService) GetProfile(ctx context.Context, username string) (*ProfileView, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, userLookupError(err)
	}

	books := user.Books
	if books == nil {
		books = []domain.Book{}
	}
	return &ProfileView{
		Username:    user.Username,
		AvatarColor: color.ForUsername(user.Username),
		Profile:     user.Profile,
		Books:       books,
		Stats:       reading.ComputeStats(user, s.now()),
		CreatedAt:   user.CreatedAt,
	}, nil
}

// UpdateProfile edits the signed-in user's name and bio.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		if req.Name != nil {
			u.Profile.Name = *req.Name
		}
		if req.Bio != nil {
			u.Profile.Bio = *req.Bio
		}
		u.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// AddMood appends a profile mood and returns the refreshed stats. Labels
// outside the five moods are rejected with a validation error.
func (s *ProfileService) AddMood(ctx context.Context, userID, mood string) (*domain.Stats, error) {
	now := s.now()
	user, err := s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		if err := reading.AddProfileMood(u, mood, now); err != nil {
			return err
		}
		u.Touch(now)
		return nil
	})
	if err != nil {
		return nil, userLookupError(err)
	}

	stats := reading.ComputeStats(user, now)
	s.logger.Debug("mood recorded", "user_id", userID, "mood", mood)
	return &stats, nil
}
