package areaapi

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCounter    metric.Int64Counter
)

// InitMetrics registers the outbound API client instruments.
func InitMetrics() error {
	meter := otel.Meter("areaapi")

	var err error

	requestCounter, err = meter.Int64Counter("areaapi.requests.total",
		metric.WithDescription("Total number of requests sent to the area API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	requestDuration, err = meter.Float64Histogram("areaapi.request.duration",
		metric.WithDescription("Round-trip time of area API requests in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	)
	if err != nil {
		return fmt.Errorf("creating request histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("areaapi.errors.total",
		metric.WithDescription("Total number of failed area API requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
