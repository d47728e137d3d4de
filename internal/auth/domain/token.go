package domain

import (
	"time"
)

// Token is a signed access token. It is never stored server-side; its
// validity depends only on its claims and the process signing key.
type Token struct {
	Subject   string
	Roles     []Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       string
}
