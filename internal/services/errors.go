package services

import (
	"errors"

	"github.com/conectly/userapi/internal/validate"
)

// ErrInvalidCredentials is returned by Login when the email is unknown or
// the password does not match. The two cases are not distinguished to the
// caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRefreshToken is returned by Refresh when the presented token
// is expired, malformed, or has a bad signature.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// ValidationError carries the per-field failures of a rejected payload.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "validation failed: " + e.Fields[0].Message
	}
	return "validation failed"
}
