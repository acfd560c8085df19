package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chapteredapp/chaptered-server/internal/auth"
	"github.com/chapteredapp/chaptered-server/internal/domain"
	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
	"github.com/chapteredapp/chaptered-server/internal/id"
	"github.com/chapteredapp/chaptered-server/internal/store"
	"github.com/chapteredapp/chaptered-server/internal/validation"
)

// PasswordHasher hashes and checks passwords. *auth.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) bool
	NeedsRehash(encoded string) bool
}

const invalidCredentials = "invalid username or password"

// SignupRequest contains the data for a new account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Name     string `json:"name" validate:"max=100"`
	Bio      string `json:"bio" validate:"max=500"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	User *domain.User
	SessionResponse
}

// AuthService handles signup, login and access token verification. Session
// bookkeeping is delegated to SessionService.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	sessions  *SessionService
	hasher    PasswordHasher
	validator *validation.Validator
	now       Clock
	logger    *slog.Logger
}

// NewAuthService creates an authentication service.
func NewAuthService(
	s store.Store,
	tokens *auth.TokenService,
	sessions *SessionService,
	hasher PasswordHasher,
	v *validation.Validator,
	now Clock,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     s,
		tokens:    tokens,
		sessions:  sessions,
		hasher:    hasher,
		validator: v,
		now:       now,
		logger:    logger,
	}
}

// Signup creates an account and signs it in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := s.now()
	user := domain.NewUser(userID, req.Username, now)
	user.Email = req.Email
	user.PasswordHash = passwordHash
	user.Profile = domain.Profile{Name: req.Name, Bio: req.Bio}
	user.LastLoginAt = &now

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username already taken").WithCause(err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)

	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Login checks credentials and opens a session. Unknown usernames and wrong
// passwords get the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials(invalidCredentials)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials(invalidCredentials)
	}

	// Hash outside the update closure; it may run more than once.
	var rehashed string
	if s.hasher.NeedsRehash(user.PasswordHash) {
		if h, err := s.hasher.Hash(req.Password); err == nil {
			rehashed = h
		}
	}

	now := s.now()
	updated, err := s.store.UpdateUser(ctx, user.ID, func(u *domain.User) error {
		u.LastLoginAt = &now
		if rehashed != "" {
			u.PasswordHash = rehashed
		}
		u.Touch(now)
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to record login", "user_id", user.ID, "error", err)
	} else {
		user = updated
	}

	session, err := s.sessions.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "ip", client.IPAddress)

	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// RefreshTokens rotates a refresh token.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string, client ClientInfo) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"refresh_token": "is required"})
	}

	session, user, err := s.sessions.RefreshSession(ctx, refreshToken, client)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Logout revokes the session holding refreshToken.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.DeleteSessionByRefreshToken(ctx, refreshToken)
}

// VerifyAccessToken validates a token and loads its user. Used by the
// authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired access token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists").WithCause(err)
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	return user, claims, nil
}
