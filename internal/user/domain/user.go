// Package domain defines the user entity backing authentication.
package domain

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/koliving/api/internal/auth/domain"
	"github.com/koliving/api/internal/errors"
)

// User is a registered member of the platform.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string //nolint:gosec // password hash, never plaintext
	Roles     []authDomain.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal returns the identity the authentication pipeline binds for u.
func (u *User) Principal() *authDomain.Principal {
	return &authDomain.Principal{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: append([]authDomain.Role(nil), u.Roles...),
	}
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")
)
