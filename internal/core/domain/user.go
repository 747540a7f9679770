package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrSelfDeletion        = errors.New("cannot delete own account")
	ErrTooManyAttempts     = errors.New("too many login attempts")
	ErrSecretNotConfigured = errors.New("signing secret not configured")
)

// User models an account that can authenticate against the platform.
// PasswordHash is never serialized; the plaintext password only exists
// transiently inside the auth service during register and login.
type User struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	Apellido     string    `json:"apellido"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
