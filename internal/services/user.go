package services

import (
	"context"
	"log/slog"

	"github.com/conectly/userapi/internal/store"
	"github.com/conectly/userapi/types"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	defaultSortBy   = "createdAt"
)

// UserService encapsulates user read use-cases.
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns one page of users with pagination metadata. Zero-valued
// params are replaced with defaults (page 1, size 10, newest first,
// active only). An empty page is a valid result, not an error.
func (s *UserService) List(ctx context.Context, params store.ListParams) (types.UserPage, error) {
	if params.Page < 1 {
		params.Page = defaultPage
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.SortBy == "" {
		params.SortBy = defaultSortBy
	}

	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return types.UserPage{}, err
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize

	return types.UserPage{
		Users: users,
		Pagination: types.Pagination{
			TotalUsers:  total,
			TotalPages:  totalPages,
			CurrentPage: params.Page,
			Limit:       params.PageSize,
		},
	}, nil
}

// GetByID returns a single user; store.ErrNotFound propagates for an
// unknown id.
func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Deactivate soft-disables an account. Deactivated users drop out of the
// default listing but remain in the store.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("user deactivated", "id", id)
	return nil
}
