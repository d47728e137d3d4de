// Package http implements the request authentication pipeline: route
// classification, login, logout, bearer token verification and role checks,
// plus translation of authentication failures into localized responses.
package http

import (
	"context"

	authDomain "github.com/koliving/api/internal/auth/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context. The
// pipeline binds it only for the lifetime of one request.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (nil, false) on public routes and before authentication.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}
