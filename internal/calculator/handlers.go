package calculator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"square-area-client/internal/handlers"
	"square-area-client/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers serves the calculator page backed by one Client.
type Handlers struct {
	client *Client
}

func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// Index handles GET /. Like a browser page load it reloads history and
// stats before rendering.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.index")
	defer span.End()

	// Load failures are logged by the client; the page renders what it has.
	_ = h.client.Refresh(ctx)

	var buf bytes.Buffer
	if err := RenderHTML(&buf, h.client.Snapshot(), r.URL.Query().Get("side"), h.client.RefreshInterval()); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "index", "failed to render page", err, http.StatusInternalServerError, w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Calculate handles POST /calculate from the HTML form and redirects back
// to the page.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate_form")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", "invalid form body", err, http.StatusBadRequest, w)
		return
	}

	side := r.PostForm.Get("side")
	text, _ := h.client.CalculateArea(ctx, side)
	span.SetAttributes(attribute.String("calculator.result_text", text))

	target := "/"
	if side != "" {
		target += "?side=" + url.QueryEscape(side)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// PageJSON handles GET /api/page.
func (h *Handlers) PageJSON(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, h.client.Snapshot())
}

// CalculateJSON handles POST /api/calculate with {"side": "5"} or
// {"side": 5} and answers with the updated page.
func (h *Handlers) CalculateJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate_json",
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(ctx))),
	)
	defer span.End()

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	raw, err := rawSide(req.Side)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	text, calcErr := h.client.CalculateArea(ctx, raw)
	if calcErr != nil {
		logger.Debug("calculation did not produce an area", zap.String("result", text), zap.Error(calcErr))
	}

	handlers.WriteJSON(w, http.StatusOK, h.client.Snapshot())
}

// rawSide turns the decoded JSON side back into the text a form would send.
func rawSide(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("side has unsupported type %T", v)
	}
}
