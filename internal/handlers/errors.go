package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/conectly/userapi/internal/services"
	"github.com/conectly/userapi/internal/store"
	"github.com/conectly/userapi/internal/validate"
)

// Application error codes included alongside HTTP statuses in error
// responses.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeDuplicateEmail   = "AUTH_EMAIL_ALREADY_EXISTS"
	codeInvalidToken     = "AUTH_INVALID_TOKEN"
	codeUnauthorized     = "ACCESS_UNAUTHORIZED"
	codeNotFound         = "RESOURCE_NOT_FOUND"
	codeTooManyRequests  = "TOO_MANY_REQUESTS"
	codeInternalError    = "INTERNAL_SERVER_ERROR"
	codeMalformedRequest = "MALFORMED_REQUEST"
)

// ErrorResponse is the canonical JSON error body. Errors is populated
// only for validation failures.
type ErrorResponse struct {
	Message   string                `json:"message"`
	ErrorCode string                `json:"errorCode,omitempty"`
	Errors    []validate.FieldError `json:"errors,omitempty"`
}

// apiError pairs a client-visible message with an HTTP status and an
// application error code.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(message string) error {
	return &apiError{status: http.StatusBadRequest, code: codeMalformedRequest, message: message}
}

func unauthorized(message string) error {
	return &apiError{status: http.StatusUnauthorized, code: codeUnauthorized, message: message}
}

// renderError is the single place an error is translated into an HTTP
// response. Anything it does not recognize becomes a generic 500 with the
// detail kept server-side.
func renderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Message:   "Validation failed",
			ErrorCode: codeValidation,
			Errors:    validationErr.Fields,
		})
		return
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.status, ErrorResponse{Message: apiErr.message, ErrorCode: apiErr.code})
		return
	}

	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, ErrorResponse{Message: "User already exists", ErrorCode: codeDuplicateEmail})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "Resource not found", ErrorCode: codeNotFound})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password", ErrorCode: codeUnauthorized})
	case errors.Is(err, services.ErrInvalidRefreshToken):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Message: "Invalid or expired refresh token", ErrorCode: codeInvalidToken})
	default:
		logger.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error", ErrorCode: codeInternalError})
	}
}
