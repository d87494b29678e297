package app

import (
	"errors"

	"storefront/internal/domain"
)

// User-facing messages shown by the admin panel.
const (
	MsgInvalidCredentials = "Email veya şifre hatalı"
	MsgUnauthorized       = "Yetkisiz erişim"
)

var (
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates a missing, expired or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates that the addressed entity does not exist.
	ErrNotFound = domain.ErrNotFound
	// ErrUserExists indicates that provisioning found an existing account.
	ErrUserExists = errors.New("user already exists")
)

// ValidationError reports the first invalid field of an input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
