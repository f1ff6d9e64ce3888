// Package validate holds pure structural checks applied to request
// payloads before any service call.
package validate

import (
	"net/mail"
	"strings"
	"unicode"
)

const (
	emailMaxLen    = 255
	passwordMinLen = 8
	passwordMaxLen = 128
	usernameMinLen = 3
	usernameMaxLen = 40
)

// FieldError describes a single failed check on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Email checks address shape and length. The returned value is trimmed.
func Email(value string) (string, []FieldError) {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > emailMaxLen {
		return value, []FieldError{{Field: "email", Message: "email must be between 1 and 255 characters"}}
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return value, []FieldError{{Field: "email", Message: "invalid email address"}}
	}
	at := strings.LastIndex(value, "@")
	if at < 1 || !strings.Contains(value[at:], ".") {
		return value, []FieldError{{Field: "email", Message: "invalid email address"}}
	}
	return value, nil
}

// Password enforces the complexity policy: 8-128 characters with at
// least one uppercase letter, one lowercase letter, one digit, and one
// symbol.
func Password(value string) []FieldError {
	value = strings.TrimSpace(value)

	var errs []FieldError
	if len(value) < passwordMinLen {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(value) > passwordMaxLen {
		errs = append(errs, FieldError{Field: "password", Message: "password must be less than 128 characters"})
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper {
		errs = append(errs, FieldError{Field: "password", Message: "password must contain at least one uppercase letter"})
	}
	if !hasLower {
		errs = append(errs, FieldError{Field: "password", Message: "password must contain at least one lowercase letter"})
	}
	if !hasDigit {
		errs = append(errs, FieldError{Field: "password", Message: "password must contain at least one number"})
	}
	if !hasSymbol {
		errs = append(errs, FieldError{Field: "password", Message: "password must contain at least one special character"})
	}
	return errs
}

// Name checks a display name or username for length. The field name is
// echoed into any errors so callers can reuse this for both fields.
func Name(field, value string) (string, []FieldError) {
	value = strings.TrimSpace(value)
	if len(value) < usernameMinLen {
		return value, []FieldError{{Field: field, Message: field + " must have a minimum of 3 characters"}}
	}
	if len(value) > usernameMaxLen {
		return value, []FieldError{{Field: field, Message: field + " must have a maximum of 40 characters"}}
	}
	return value, nil
}

// RegisterInput is a registration payload after trimming.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register validates a registration payload. The returned input has all
// fields trimmed; the error list is nil when every check passes.
func Register(name, username, email, password string) (RegisterInput, []FieldError) {
	var errs []FieldError

	name, nameErrs := Name("name", name)
	errs = append(errs, nameErrs...)

	username, usernameErrs := Name("userName", username)
	errs = append(errs, usernameErrs...)

	email, emailErrs := Email(email)
	errs = append(errs, emailErrs...)

	errs = append(errs, Password(password)...)

	return RegisterInput{
		Name:     name,
		Username: username,
		Email:    email,
		Password: strings.TrimSpace(password),
	}, errs
}

// Login validates a login payload.
func Login(email, password string) (string, string, []FieldError) {
	var errs []FieldError

	email, emailErrs := Email(email)
	errs = append(errs, emailErrs...)

	errs = append(errs, Password(password)...)

	return email, strings.TrimSpace(password), errs
}
