package usecase

import (
	"context"
	"time"

	authDomain "github.com/koliving/api/internal/auth/domain"
	"github.com/koliving/api/internal/metrics"
)

// authenticationProviderWithMetrics decorates AuthenticationProvider with metrics instrumentation.
type authenticationProviderWithMetrics struct {
	next    AuthenticationProvider
	metrics metrics.BusinessMetrics
}

// NewAuthenticationProviderWithMetrics wraps an AuthenticationProvider with metrics recording.
func NewAuthenticationProviderWithMetrics(
	provider AuthenticationProvider,
	m metrics.BusinessMetrics,
) AuthenticationProvider {
	return &authenticationProviderWithMetrics{
		next:    provider,
		metrics: m,
	}
}

// Authenticate records the outcome of a login attempt. Rejected credentials
// are labeled with their error kind so brute force attempts stand out from
// store failures.
func (a *authenticationProviderWithMetrics) Authenticate(
	ctx context.Context,
	credentials authDomain.Credentials,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, credentials)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		if kind, ok := authDomain.KindOf(err); ok {
			status = kind.String()
		}
	}

	a.metrics.RecordOperation(ctx, "auth", "login", status)
	a.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return principal, err
}
