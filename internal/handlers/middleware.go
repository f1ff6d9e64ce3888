package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/conectly/userapi/internal/auth"
)

// RequireAuth enforces a valid bearer access token and injects the token
// subject into the request context.
func RequireAuth(accessSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				renderError(w, logger, unauthorized("Access Denied"))
				return
			}

			claims, err := auth.ParseAccessToken(tokenString, accessSecret)
			if err != nil {
				logger.Warn("access token rejected", "path", r.URL.Path, "error", err)
				renderError(w, logger, unauthorized("Invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
