package calculator

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"square-area-client/internal/areaapi"
	"square-area-client/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("calculator")

// AreaAPI is the part of the remote API the client uses.
type AreaAPI interface {
	CalculateSquare(ctx context.Context, side float64) (areaapi.SquareResponse, error)
	RecentCalculations(ctx context.Context, limit int) ([]areaapi.Calculation, error)
	CountCalculations(ctx context.Context, shape string) (areaapi.Stats, error)
}

// Options configures a Client. Zero values take the defaults.
type Options struct {
	HistoryLimit    int
	RefreshInterval time.Duration
	Location        *time.Location
}

// Client holds the page view and updates it from the area API. Network
// calls run without the lock; whichever call finishes last owns its part of
// the page.
type Client struct {
	api      AreaAPI
	limit    int
	interval time.Duration
	loc      *time.Location

	mu   sync.Mutex
	page Page
}

func NewClient(api AreaAPI, opts Options) *Client {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 5
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Client{
		api:      api,
		limit:    opts.HistoryLimit,
		interval: opts.RefreshInterval,
		loc:      opts.Location,
	}
}

// Snapshot returns a copy of the current page.
func (c *Client) Snapshot() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.clone()
}

// RefreshInterval is the period of the background history reload.
func (c *Client) RefreshInterval() time.Duration { return c.interval }

func (c *Client) setResult(text string) {
	c.mu.Lock()
	c.page.Result = text
	c.mu.Unlock()
}

// CalculateArea validates rawSide, submits it and writes the outcome to the
// result line, which it also returns. Invalid input never reaches the API.
// A successful calculation reloads the history before returning. The error
// reports what went wrong; the page already shows the user-facing text.
func (c *Client) CalculateArea(ctx context.Context, rawSide string) (string, error) {
	logger := observability.LoggerWithTrace(ctx)

	side, err := ParseSide(rawSide)
	if err != nil {
		calculationCounter.Add(ctx, 1, outcome("invalid"))
		c.setResult(InvalidSideMessage)
		return InvalidSideMessage, err
	}

	ctx, span := tracer.Start(ctx, "calculator.calculate_area",
		trace.WithAttributes(attribute.Float64("calculator.side", side)),
	)
	defer span.End()

	resp, err := c.api.CalculateSquare(ctx, side)
	if err != nil {
		var apiErr *areaapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			text := "Error: " + apiErr.Message
			calculationCounter.Add(ctx, 1, outcome("rejected"))
			span.SetStatus(codes.Error, apiErr.Message)
			logger.Warn("area api rejected calculation",
				zap.Float64("side", side),
				zap.Int("status", apiErr.StatusCode),
				zap.String("error", apiErr.Message),
			)
			c.setResult(text)
			return text, err
		}

		calculationCounter.Add(ctx, 1, outcome("failed"))
		span.RecordError(err)
		span.SetStatus(codes.Error, "area api unreachable")
		logger.Error("calculate area failed", zap.Float64("side", side), zap.Error(err))
		c.setResult(ConnectionErrorMessage)
		return ConnectionErrorMessage, err
	}

	if resp.Error != "" {
		text := "Error: " + resp.Error
		calculationCounter.Add(ctx, 1, outcome("rejected"))
		span.SetStatus(codes.Error, resp.Error)
		logger.Info("area api rejected calculation", zap.Float64("side", side), zap.String("error", resp.Error))
		c.setResult(text)
		return text, &areaapi.APIError{StatusCode: 200, Message: resp.Error}
	}

	text := areaText(resp.Area, resp.CalculationID)
	c.setResult(text)

	calculationCounter.Add(ctx, 1, outcome("ok"))
	lastAreaGauge.Record(ctx, resp.Area)
	span.SetAttributes(attribute.Float64("calculator.area", resp.Area))
	span.SetStatus(codes.Ok, "")

	fields := []zap.Field{zap.Float64("side", side), zap.Float64("area", resp.Area)}
	if resp.CalculationID != nil {
		fields = append(fields, zap.Int64("calculation_id", *resp.CalculationID))
	}
	logger.Info("area calculated", fields...)

	// History failures are logged inside and do not change the result.
	_ = c.LoadHistory(ctx)

	return text, nil
}

// LoadHistory fetches the most recent calculations and rebuilds the history
// panel, creating it on first use. On failure the panel is left as it was.
func (c *Client) LoadHistory(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "calculator.load_history")
	defer span.End()

	calcs, err := c.api.RecentCalculations(ctx, c.limit)
	if err != nil {
		c.loadFailed(ctx, span, "history", err)
		return err
	}

	if len(calcs) > c.limit {
		calcs = calcs[:c.limit]
	}

	items := make([]HistoryItem, 0, len(calcs))
	for _, calc := range calcs {
		items = append(items, HistoryItem{
			Shape:  calc.Shape,
			Input:  FormatNumber(calc.InputValue),
			Result: FormatNumber(calc.Result),
			Time:   FormatTime(calc.CreatedAt, c.loc),
		})
	}

	c.mu.Lock()
	if c.page.History == nil {
		c.page.History = &HistoryPanel{Heading: HistoryHeading}
	}
	c.page.History.Items = items
	c.page.History.EmptyMessage = ""
	if len(items) == 0 {
		c.page.History.EmptyMessage = EmptyHistoryMessage
	}
	c.mu.Unlock()

	refreshCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("panel", "history"),
		attribute.String("outcome", "ok"),
	))
	span.SetAttributes(attribute.Int("calculator.history.items", len(items)))
	span.SetStatus(codes.Ok, "")
	return nil
}

// LoadStats fetches the calculation count and re-renders the stats panel,
// creating it on first use.
func (c *Client) LoadStats(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "calculator.load_stats")
	defer span.End()

	stats, err := c.api.CountCalculations(ctx, "")
	if err != nil {
		c.loadFailed(ctx, span, "stats", err)
		return err
	}

	c.mu.Lock()
	c.page.Stats = &StatsPanel{
		Heading: StatsHeading,
		Count:   stats.Count,
		Text:    "Total calculations: " + strconv.FormatInt(stats.Count, 10),
	}
	c.mu.Unlock()

	refreshCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("panel", "stats"),
		attribute.String("outcome", "ok"),
	))
	span.SetAttributes(attribute.Int64("calculator.stats.count", stats.Count))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Refresh is the page-load sequence: history, then stats. Both failures
// are already logged, so the joined error is informational.
func (c *Client) Refresh(ctx context.Context) error {
	return errors.Join(c.LoadHistory(ctx), c.LoadStats(ctx))
}

func (c *Client) loadFailed(ctx context.Context, span trace.Span, panel string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "failed to load "+panel)

	refreshCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("panel", panel),
		attribute.String("outcome", "error"),
	))

	observability.LoggerWithTrace(ctx).Error("failed to load "+panel,
		zap.Error(err),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
}

func outcome(name string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", name))
}
