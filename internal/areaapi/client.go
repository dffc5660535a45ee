package areaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"square-area-client/internal/observability"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("areaapi")

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client talks to the remote area API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps outbound requests with a token bucket.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// CalculateSquare submits a side length. An application-level rejection is
// returned in SquareResponse.Error with a nil error.
func (c *Client) CalculateSquare(ctx context.Context, side float64) (SquareResponse, error) {
	var out SquareResponse
	err := c.do(ctx, "calculate_square", http.MethodPost, "/api/area/square", nil, SquareRequest{Side: side}, &out)
	if err != nil {
		return SquareResponse{}, err
	}
	return out, nil
}

// RecentCalculations lists up to limit calculations, most recent first.
func (c *Client) RecentCalculations(ctx context.Context, limit int) ([]Calculation, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out []Calculation
	if err := c.do(ctx, "recent_calculations", http.MethodGet, "/api/calculations", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Calculation fetches one record by id.
func (c *Client) Calculation(ctx context.Context, id int64) (Calculation, error) {
	var out Calculation
	path := "/api/calculations/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get_calculation", http.MethodGet, path, nil, nil, &out); err != nil {
		return Calculation{}, err
	}
	return out, nil
}

// CountCalculations returns the number of stored calculations, restricted
// to one shape when shape is non-empty.
func (c *Client) CountCalculations(ctx context.Context, shape string) (Stats, error) {
	var q url.Values
	if shape != "" {
		q = url.Values{}
		q.Set("shape", shape)
	}

	var out Stats
	if err := c.do(ctx, "count_calculations", http.MethodGet, "/api/stats/count", q, nil, &out); err != nil {
		return Stats{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, opName, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := tracer.Start(ctx, "areaapi."+opName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	status := 0
	defer func() {
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		attrs := metric.WithAttributes(
			attribute.String("operation", opName),
			attribute.Int("status", status),
		)
		requestCounter.Add(ctx, 1, attrs)
		requestDuration.Record(ctx, elapsed, attrs)
		if err != nil {
			errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", opName, err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", opName, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", opName, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := observability.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", opName, err)
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", opName, err)
	}

	if status < 200 || status > 299 {
		return newAPIError(status, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", opName, err)
	}

	observability.LoggerWithTrace(ctx).Debug("area api call completed",
		zap.String("operation", opName),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
