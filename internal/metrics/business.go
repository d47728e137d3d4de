package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels shared by business operations.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BusinessMetrics records business operations of a domain ("auth", "user",
// "room") by operation name and status.
type BusinessMetrics interface {
	// RecordOperation counts one operation, for example ("auth", "login", "bad_credentials").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes how long the operation took.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewBusinessMetrics creates instruments named <namespace>_operations_total
// and <namespace>_operation_duration_seconds.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, metric.WithAttributes(operationAttributes(domain, operation, status)...))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(), metric.WithAttributes(operationAttributes(domain, operation, status)...))
}

func operationAttributes(domain, operation, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	}
}

// NoOpBusinessMetrics discards everything. It is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}
