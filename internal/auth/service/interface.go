// Package service provides the technical services behind authentication:
// password hashing, access token signing and verification, and loading of the
// token signing key.
package service

import (
	"context"

	authDomain "github.com/koliving/api/internal/auth/domain"
	cryptoDomain "github.com/koliving/api/internal/crypto/domain"
)

// PasswordService hashes and compares account passwords.
type PasswordService interface {
	// HashPassword hashes a plaintext password for storage.
	HashPassword(plain string) (string, error)

	// ComparePassword reports whether plain matches hashed. It never returns
	// true for a malformed hash.
	ComparePassword(plain, hashed string) bool
}

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	// Issue signs a token for principal. The token carries the principal's
	// email as subject, its roles, and an expiry of issue time plus the TTL.
	Issue(principal *authDomain.Principal) (*authDomain.Token, error)

	// Verify checks the signature and then the expiry of raw and rebuilds the
	// principal from its claims. Failures are *authDomain.AuthError values of
	// kind TokenMalformed, TokenSignatureInvalid or TokenExpired.
	Verify(raw string) (*authDomain.Principal, error)
}

// KeeperOpener opens KMS keepers. It is satisfied by the crypto KMSService.
type KeeperOpener interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
