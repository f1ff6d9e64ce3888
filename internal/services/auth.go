package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/conectly/userapi/config"
	"github.com/conectly/userapi/internal/auth"
	"github.com/conectly/userapi/internal/store"
	"github.com/conectly/userapi/internal/validate"
	"github.com/conectly/userapi/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	List(ctx context.Context, params store.ListParams) ([]types.User, int, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// TokenPair is a freshly issued access/refresh token set.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates registration, login, and refresh-token
// rotation.
type AuthService struct {
	repo   UserRepository
	cfg    config.AuthConfig
	logger *slog.Logger
}

func NewAuthService(repo UserRepository, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{repo: repo, cfg: cfg, logger: logger}
}

// Register validates the payload, hashes the password, and persists the
// user. A duplicate email surfaces as store.ErrDuplicateEmail whether it
// is caught by the pre-check or by the unique index; the pre-check is a
// fast path only, the index is the authority. Unexpected persistence
// failures propagate to the caller.
func (s *AuthService) Register(ctx context.Context, name, username, email, password string) (types.User, error) {
	input, fieldErrs := validate.Register(name, username, email, password)
	if len(fieldErrs) > 0 {
		return types.User{}, &ValidationError{Fields: fieldErrs}
	}

	normalized := strings.ToLower(input.Email)
	if _, err := s.repo.GetByEmail(ctx, normalized); err == nil {
		s.logger.Warn("registration rejected, email already exists", "email", normalized)
		return types.User{}, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        normalized,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return types.User{}, err
		}
		s.logger.Error("user creation failed", "email", normalized, "error", err)
		return types.User{}, err
	}

	s.logger.Info("user registered", "id", user.ID, "userName", user.Username)
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// password mismatch both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.User, TokenPair, error) {
	email, password, fieldErrs := validate.Login(email, password)
	if len(fieldErrs) > 0 {
		return types.User{}, TokenPair{}, &ValidationError{Fields: fieldErrs}
	}

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return types.User{}, TokenPair{}, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		s.logger.Warn("login rejected, password mismatch", "id", user.ID)
		return types.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return types.User{}, TokenPair{}, err
	}

	s.logger.Info("user logged in", "id", user.ID)
	return user, pair, nil
}

// Refresh verifies a refresh token and rotates the pair. Any verification
// failure is reported as ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := auth.ParseRefreshToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		s.logger.Warn("refresh token rejected", "error", err)
		return TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}

	return s.issuePair(user)
}

func (s *AuthService) issuePair(user types.User) (TokenPair, error) {
	access, err := auth.IssueAccessToken(user.ID, user.Email, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		s.logger.Error("access token signing failed", "error", err)
		return TokenPair{}, err
	}
	refresh, err := auth.IssueRefreshToken(user.Email, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		s.logger.Error("refresh token signing failed", "error", err)
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
