package domain

import (
	"github.com/koliving/api/internal/errors"
)

// ErrorKind classifies an authentication or authorization failure.
type ErrorKind int

const (
	// KindMissingToken means a protected path was requested without a bearer token.
	KindMissingToken ErrorKind = iota + 1
	// KindInvalidCredentials means the password did not match the stored hash.
	KindInvalidCredentials
	// KindUnknownPrincipal means no user exists for the submitted email.
	KindUnknownPrincipal
	// KindTokenMalformed means the bearer value is not a decodable token.
	KindTokenMalformed
	// KindTokenExpired means the token signature is valid but expiry has passed.
	KindTokenExpired
	// KindTokenSignatureInvalid means the token was not signed by this service.
	KindTokenSignatureInvalid
	// KindInsufficientRole means the principal lacks the role the path requires.
	KindInsufficientRole
	// KindValidationFailed means the login payload is malformed.
	KindValidationFailed
	// KindTooManyAttempts means the client exceeded the login rate limit.
	KindTooManyAttempts
)

var kindNames = map[ErrorKind]string{
	KindMissingToken:          "missing_token",
	KindInvalidCredentials:    "invalid_credentials",
	KindUnknownPrincipal:      "unknown_principal",
	KindTokenMalformed:        "token_malformed",
	KindTokenExpired:          "token_expired",
	KindTokenSignatureInvalid: "token_signature_invalid",
	KindInsufficientRole:      "insufficient_role",
	KindValidationFailed:      "validation_failed",
	KindTooManyAttempts:       "too_many_attempts",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// AuthError is a typed authentication failure. Err carries the underlying
// cause for logging and is never exposed to clients.
type AuthError struct {
	Kind ErrorKind
	Err  error
}

// NewAuthError creates an AuthError of kind k wrapping cause (which may be nil).
func NewAuthError(k ErrorKind, cause error) *AuthError {
	return &AuthError{Kind: k, Err: cause}
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err. The second result is false for
// untyped errors.
func KindOf(err error) (ErrorKind, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind, true
	}
	return 0, false
}

