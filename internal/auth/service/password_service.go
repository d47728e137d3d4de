package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/koliving/api/internal/errors"
)

// passwordService hashes with Argon2id and still verifies bcrypt hashes
// imported from the previous platform.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using the Argon2id interactive policy.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		// only reachable with an invalid policy
		panic(err)
	}
	return &passwordService{hasher: hasher}
}

func (s *passwordService) HashPassword(plain string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

func (s *passwordService) ComparePassword(plain, hashed string) bool {
	if isBcryptHash(hashed) {
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
	}

	ok, err := s.hasher.Verify([]byte(plain), hashed)
	if err != nil {
		return false
	}
	return ok
}

func isBcryptHash(hashed string) bool {
	return strings.HasPrefix(hashed, "$2a$") ||
		strings.HasPrefix(hashed, "$2b$") ||
		strings.HasPrefix(hashed, "$2y$")
}
