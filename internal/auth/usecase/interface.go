// Package usecase implements credential authentication for the login flow.
package usecase

import (
	"context"

	authDomain "github.com/koliving/api/internal/auth/domain"
	userDomain "github.com/koliving/api/internal/user/domain"
)

// CredentialStore is the read side of the user store consulted at login.
// LoadUserByEmail returns an error wrapping apperrors.ErrNotFound when no
// account matches.
type CredentialStore interface {
	LoadUserByEmail(ctx context.Context, email string) (*userDomain.User, error)
	IsEqualPassword(plain, hashed string) bool
}

// AuthenticationProvider verifies login credentials.
type AuthenticationProvider interface {
	// Authenticate returns the principal for valid credentials. Failures are
	// *authDomain.AuthError of kind UnknownPrincipal or InvalidCredentials;
	// store failures are returned untyped.
	Authenticate(ctx context.Context, credentials authDomain.Credentials) (*authDomain.Principal, error)
}
