package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/conectly/userapi/internal/services"
	"github.com/conectly/userapi/internal/store"
	"github.com/go-chi/chi/v5"
)

// UserHandler serves user listing and lookup endpoints.
type UserHandler struct {
	userService *services.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// UserRouter registers user routes. The single-user lookup requires a
// valid bearer access token.
func UserRouter(r chi.Router, handler *UserHandler, requireAuth func(http.Handler) http.Handler) {
	r.Get("/", handler.List)
	r.With(requireAuth).Get("/{id}", handler.GetByID)
}

// List returns one page of active users with pagination metadata. An
// empty page is a success with an empty data array.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		renderError(w, h.logger, err)
		return
	}

	page, err := h.userService.List(r.Context(), params)
	if err != nil {
		renderError(w, h.logger, err)
		return
	}

	h.logger.Info("users listed", "page", params.Page, "count", len(page.Users))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Users fetched successfully",
		"data":       page.Users,
		"pagination": page.Pagination,
	})
}

// GetByID returns a single user by id, password hash excluded.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		renderError(w, h.logger, err)
		return
	}

	if requester, err := userIDFromContext(r.Context()); err == nil {
		h.logger.Info("user fetched", "id", user.ID, "requestedBy", requester)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User fetched successfully",
		"user":    user,
	})
}

func listParams(r *http.Request) (store.ListParams, error) {
	query := r.URL.Query()
	params := store.ListParams{
		Active:   true,
		SortBy:   "createdAt",
		OrderAsc: false,
		Page:     1,
		PageSize: 10,
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page <= 0 {
			return store.ListParams{}, badRequest("Invalid pagination parameter: page")
		}
		params.Page = page
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return store.ListParams{}, badRequest("Invalid pagination parameter: limit")
		}
		params.PageSize = limit
	}
	if raw := query.Get("sortBy"); raw != "" {
		if _, ok := store.SortColumn(raw); !ok {
			return store.ListParams{}, badRequest("Invalid sort parameter: sortBy")
		}
		params.SortBy = raw
	}
	if raw := query.Get("order"); raw != "" {
		switch raw {
		case "asc":
			params.OrderAsc = true
		case "desc":
			params.OrderAsc = false
		default:
			return store.ListParams{}, badRequest("Invalid sort parameter: order")
		}
	}
	if raw := query.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return store.ListParams{}, badRequest("Invalid filter parameter: active")
		}
		params.Active = active
	}

	return params, nil
}
