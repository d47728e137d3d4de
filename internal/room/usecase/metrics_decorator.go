package usecase

import (
	"context"
	"time"

	"github.com/koliving/api/internal/metrics"
	"github.com/koliving/api/internal/room/domain"
)

// roomUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type roomUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewRoomUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewRoomUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &roomUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Search records metrics for public room searches.
func (r *roomUseCaseWithMetrics) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Room, error) {
	start := time.Now()
	rooms, err := r.next.Search(ctx, criteria)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	r.metrics.RecordOperation(ctx, "room", "search", status)
	r.metrics.RecordDuration(ctx, "room", "search", time.Since(start), status)

	return rooms, err
}

// Create records metrics for listing creation.
func (r *roomUseCaseWithMetrics) Create(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	start := time.Now()
	room, err := r.next.Create(ctx, input)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	r.metrics.RecordOperation(ctx, "room", "create", status)
	r.metrics.RecordDuration(ctx, "room", "create", time.Since(start), status)

	return room, err
}
