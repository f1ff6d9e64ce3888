package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/conectly/userapi/config"
	"github.com/conectly/userapi/internal/services"
	"github.com/conectly/userapi/internal/store"
	"github.com/conectly/userapi/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// fakeUserRepo is an in-memory services.UserRepository for endpoint tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]types.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	if user.Gender == "" {
		user.Gender = types.GenderUnspecified
	}
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) List(_ context.Context, params store.ListParams) ([]types.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []types.User{}
	for _, user := range f.users {
		if user.IsActive == params.Active {
			user.PasswordHash = ""
			user.UpdatedAt = time.Time{}
			matched = append(matched, user)
		}
	}
	total := len(matched)
	start := (params.Page - 1) * params.PageSize
	if start >= total {
		return []types.User{}, total, nil
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.IsActive = active
	f.users[id] = user
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

// newTestRouter assembles the real route tree over the fake repository.
func newTestRouter(t *testing.T, repo services.UserRepository) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testAuthConfig()

	authService := services.NewAuthService(repo, cfg, logger)
	userService := services.NewUserService(repo, logger)
	authHandler := NewAuthHandler(authService, cfg, "/api", logger)
	userHandler := NewUserHandler(userService, logger)

	limiter := NewRateLimiter()
	t.Cleanup(limiter.Close)
	registerLimit := RateLimit(limiter, "register", 100, time.Minute)

	router := chi.NewRouter()
	router.Get("/", Home)
	router.Get("/healthz", Healthz)
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, authHandler, registerLimit)
	})
	router.Route("/api/users", func(r chi.Router) {
		UserRouter(r, userHandler, RequireAuth(cfg.AccessSecret, logger))
	})
	return router
}

// refreshCookie pulls the refresh cookie out of a recorded response.
func refreshCookie(res *http.Response) *http.Cookie {
	for _, cookie := range res.Cookies() {
		if cookie.Name == refreshCookieName {
			return cookie
		}
	}
	return nil
}
