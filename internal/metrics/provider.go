// Package metrics exports OpenTelemetry instruments through a Prometheus
// registry. It records HTTP traffic per route and business outcomes such as
// login attempts.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider owns the meter provider and the registry scraped at /metrics.
type Provider struct {
	meterProvider *metric.MeterProvider
	registry      *prometheus.Registry
}

// NewProvider creates a Provider whose registry also carries the Go runtime
// and process collectors. namespace is only used to label the scope.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: namespace,
	})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	return &Provider{
		meterProvider: metric.NewMeterProvider(metric.WithReader(exporter)),
		registry:      registry,
	}, nil
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the provider used to create instruments.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
