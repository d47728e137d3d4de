package domain

import (
	"github.com/google/uuid"
)

// Credentials are the email and password submitted to the login endpoint.
// They are never persisted.
type Credentials struct {
	Email    string
	Password string //nolint:gosec // plaintext only for the duration of one login attempt
}

// Principal is the authenticated identity bound to a request.
type Principal struct {
	ID    uuid.UUID
	Email string
	Roles []Role
	Name  string
}

// HasRole reports whether any of the principal's roles grants required.
func (p *Principal) HasRole(required Role) bool {
	for _, r := range p.Roles {
		if r.Grants(required) {
			return true
		}
	}
	return false
}
