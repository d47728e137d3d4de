package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koliving/api/internal/metrics"
	"github.com/koliving/api/internal/user/domain"
)

const metricsDomain = "user"

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	u.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	u.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// RegisterUser records metrics for signups and CLI account creation.
func (u *userUseCaseWithMetrics) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.RegisterUser(ctx, input)
	u.record(ctx, "signup", start, err)
	return user, err
}

// GetUserByID records metrics for management lookups.
func (u *userUseCaseWithMetrics) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetUserByID(ctx, id)
	u.record(ctx, "get", start, err)
	return user, err
}

// GetUserByEmail records metrics for profile lookups.
func (u *userUseCaseWithMetrics) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetUserByEmail(ctx, email)
	u.record(ctx, "get_me", start, err)
	return user, err
}

// ListUsers records metrics for management listings.
func (u *userUseCaseWithMetrics) ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	start := time.Now()
	users, err := u.next.ListUsers(ctx, offset, limit)
	u.record(ctx, "list", start, err)
	return users, err
}

// LoadUserByEmail is not recorded here; the login decorator already covers it.
func (u *userUseCaseWithMetrics) LoadUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.next.LoadUserByEmail(ctx, email)
}

func (u *userUseCaseWithMetrics) IsEqualPassword(plain, hashed string) bool {
	return u.next.IsEqualPassword(plain, hashed)
}
