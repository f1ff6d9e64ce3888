package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/conectly/userapi/config"
	"github.com/conectly/userapi/internal/db"
	"github.com/conectly/userapi/internal/handlers"
	"github.com/conectly/userapi/internal/services"
	"github.com/conectly/userapi/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	limiter    *handlers.RateLimiter
}

// New constructs a Server with its full middleware and route stack.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	authService := services.NewAuthService(userRepo, cfg.Auth, logger)
	userService := services.NewUserService(userRepo, logger)

	limiter := handlers.NewRateLimiter()
	globalLimit := handlers.RateLimit(limiter, "global", cfg.RateLimit.GlobalMax, cfg.RateLimit.GlobalWindow)
	registerLimit := handlers.RateLimit(limiter, "register", cfg.RateLimit.RegisterMax, cfg.RateLimit.RegisterWindow)

	authMiddleware := handlers.RequireAuth(cfg.Auth.AccessSecret, logger)
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth, cfg.BaseURL, logger)
	userHandler := handlers.NewUserHandler(userService, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	router.Use(globalLimit)

	router.Get("/", handlers.Home)
	router.Get("/healthz", handlers.Healthz)
	router.Route(cfg.BaseURL+"/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler, registerLimit)
	})
	router.Route(cfg.BaseURL+"/users", func(r chi.Router) {
		handlers.UserRouter(r, userHandler, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 7000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		limiter:    limiter,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Shutdown(ctx)
}
