package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/conectly/userapi/config"
	"github.com/conectly/userapi/internal/services"
	"github.com/go-chi/chi/v5"
)

const refreshCookieName = "refreshToken"

// AuthHandler provides registration and JWT authentication endpoints.
type AuthHandler struct {
	authService *services.AuthService
	cfg         config.AuthConfig
	basePath    string
	logger      *slog.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(authService *services.AuthService, cfg config.AuthConfig, basePath string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		basePath:    basePath,
		logger:      logger,
	}
}

// AuthRouter registers auth routes on the given router. registerLimit is
// the stricter rate limit applied to registration only.
func AuthRouter(r chi.Router, handler *AuthHandler, registerLimit func(http.Handler) http.Handler) {
	r.With(registerLimit).Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/refreshToken", handler.Refresh)
	r.Post("/logout", handler.Logout)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, h.logger, badRequest("Invalid JSON format. Please check your request body."))
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		renderError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login verifies credentials, returns the user and an access token, and
// sets the refresh cookie. The refresh token never appears in the body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, h.logger, badRequest("Invalid JSON format. Please check your request body."))
		return
	}

	user, pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		renderError(w, h.logger, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user":    user,
		"token":   pair.AccessToken,
	})
}

// Refresh exchanges a valid refresh cookie for a new access token and a
// rotated refresh cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		renderError(w, h.logger, unauthorized("No refresh token provided"))
		return
	}

	pair, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		renderError(w, h.logger, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": pair.AccessToken,
	})
}

// Logout clears the refresh cookie. Access tokens stay valid until
// expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     h.basePath + "/auth",
		MaxAge:   int(h.cfg.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     h.basePath + "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
