package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RouteKindKey is the gin context key under which the authentication
// pipeline stores how it classified the request (public, login, logout or
// protected).
const RouteKindKey = "koliving.route_kind"

const unknownLabel = "unknown"

type httpMetrics struct {
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
	inFlight       metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter, namespace string) (*httpMetrics, error) {
	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("Number of HTTP requests being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestCounter: requestCounter,
		durationHisto:  durationHisto,
		inFlight:       inFlight,
	}, nil
}

// HTTPMetricsMiddleware records request count, duration and in-flight
// requests labeled by method, route pattern, status code and route kind.
// Unmatched routes share the "unknown" path label to bound cardinality.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	m, err := newHTTPMetrics(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		m.inFlight.Add(ctx, 1)
		defer m.inFlight.Add(ctx, -1)

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", sanitizePath(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
			attribute.String("route_kind", routeKind(c)),
		)
		m.requestCounter.Add(ctx, 1, attrs)
		m.durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return unknownLabel
	}
	return fullPath
}

func routeKind(c *gin.Context) string {
	if kind := c.GetString(RouteKindKey); kind != "" {
		return kind
	}
	return unknownLabel
}
