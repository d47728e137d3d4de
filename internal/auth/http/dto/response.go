package dto

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/koliving/api/internal/auth/domain"
)

// LoginResponse is the body of a successful login. The token itself travels
// in the Authorization response header.
type LoginResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapLoginResponse builds the response for principal and its issued token.
func MapLoginResponse(principal *authDomain.Principal, token *authDomain.Token) LoginResponse {
	roles := make([]string, len(principal.Roles))
	for i, role := range principal.Roles {
		roles[i] = string(role)
	}
	return LoginResponse{
		ID:        principal.ID,
		Email:     principal.Email,
		Name:      principal.Name,
		Roles:     roles,
		ExpiresAt: token.ExpiresAt,
	}
}

// MessageResponse carries a localized informational message.
type MessageResponse struct {
	Message string `json:"message"`
}
