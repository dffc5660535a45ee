package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialized once via InitMetrics().
var (
	calculationCounter metric.Int64Counter
	refreshCounter     metric.Int64Counter
	errorCounter       metric.Int64Counter
	lastAreaGauge      metric.Float64Gauge
)

// InitMetrics registers the calculator client's OTel instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	calculationCounter, err = meter.Int64Counter("calculator.calculations.total",
		metric.WithDescription("Area calculations submitted, by outcome"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculation counter: %w", err)
	}

	refreshCounter, err = meter.Int64Counter("calculator.refreshes.total",
		metric.WithDescription("History and stats loads, by panel and outcome"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return fmt.Errorf("creating refresh counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of failed frontend requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	lastAreaGauge, err = meter.Float64Gauge("calculator.last_area",
		metric.WithDescription("The most recent area returned by the API"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating area gauge: %w", err)
	}

	return nil
}
