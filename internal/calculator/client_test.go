package calculator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"square-area-client/internal/areaapi"
	"square-area-client/internal/observability"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	if err := InitMetrics(); err != nil {
		panic(err)
	}
	goleak.VerifyTestMain(m)
}

// fakeAPI records calls and answers with canned values.
type fakeAPI struct {
	mu sync.Mutex

	square    areaapi.SquareResponse
	squareErr error
	history   []areaapi.Calculation
	historyFn func() ([]areaapi.Calculation, error)
	count     int64
	countErr  error

	sides        []float64
	historyCalls int
	statsCalls   int
}

func (f *fakeAPI) CalculateSquare(ctx context.Context, side float64) (areaapi.SquareResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sides = append(f.sides, side)
	return f.square, f.squareErr
}

func (f *fakeAPI) RecentCalculations(ctx context.Context, limit int) ([]areaapi.Calculation, error) {
	f.mu.Lock()
	f.historyCalls++
	fn := f.historyFn
	history := f.history
	f.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return history, nil
}

func (f *fakeAPI) CountCalculations(ctx context.Context, shape string) (areaapi.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	return areaapi.Stats{Count: f.count}, f.countErr
}

func (f *fakeAPI) calls() (sides []float64, history, stats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.sides...), f.historyCalls, f.statsCalls
}

func int64p(v int64) *int64 { return &v }

func calcs(n int) []areaapi.Calculation {
	out := make([]areaapi.Calculation, 0, n)
	for i := n; i > 0; i-- {
		out = append(out, areaapi.Calculation{
			ID:         int64(i),
			Shape:      "square",
			InputValue: float64(i),
			Result:     float64(i * i),
			CreatedAt:  fmt.Sprintf("2024-05-01T14:%02d:00Z", i),
		})
	}
	return out
}

func newTestClient(api AreaAPI) *Client {
	return NewClient(api, Options{Location: time.UTC})
}

func TestCalculateAreaInvalidInputMakesNoCall(t *testing.T) {
	for _, raw := range []string{"", "   ", "0", "-3", "abc", "NaN", "Inf", "1e400"} {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			api := &fakeAPI{}
			c := newTestClient(api)

			text, err := c.CalculateArea(context.Background(), raw)
			if !errors.Is(err, ErrInvalidSide) {
				t.Fatalf("expected ErrInvalidSide, got %v", err)
			}
			if text != InvalidSideMessage || c.Snapshot().Result != InvalidSideMessage {
				t.Fatalf("expected validation message, got %q", text)
			}

			sides, history, stats := api.calls()
			if len(sides) != 0 || history != 0 || stats != 0 {
				t.Fatalf("expected no API calls, got sides=%v history=%d stats=%d", sides, history, stats)
			}
		})
	}
}

func TestCalculateAreaSuccessShowsAreaAndRefreshesHistory(t *testing.T) {
	api := &fakeAPI{
		square:  areaapi.SquareResponse{Area: 25, CalculationID: int64p(7)},
		history: calcs(1),
	}
	c := newTestClient(api)

	text, err := c.CalculateArea(context.Background(), "5")
	if err != nil {
		t.Fatalf("CalculateArea: %v", err)
	}
	if text != "Area: 25 (Saved as #7)" {
		t.Fatalf("expected %q, got %q", "Area: 25 (Saved as #7)", text)
	}

	sides, history, _ := api.calls()
	if len(sides) != 1 || sides[0] != 5 {
		t.Fatalf("expected side 5 sent once, got %v", sides)
	}
	if history != 1 {
		t.Fatalf("expected one history refresh, got %d", history)
	}

	page := c.Snapshot()
	if page.History == nil || len(page.History.Items) != 1 {
		t.Fatalf("expected history with 1 item, got %#v", page.History)
	}
}

func TestCalculateAreaParsesDecimal(t *testing.T) {
	api := &fakeAPI{square: areaapi.SquareResponse{Area: 6.25}}
	c := newTestClient(api)

	text, err := c.CalculateArea(context.Background(), " 2.5 ")
	if err != nil {
		t.Fatalf("CalculateArea: %v", err)
	}

	sides, _, _ := api.calls()
	if sides[0] != 2.5 {
		t.Fatalf("expected side 2.5, got %v", sides[0])
	}
	if text != "Area: 6.25" {
		t.Fatalf("expected area without saved id, got %q", text)
	}
}

func TestCalculateAreaErrorFieldNeverShowsArea(t *testing.T) {
	api := &fakeAPI{square: areaapi.SquareResponse{Area: 99, Error: "Value too large - maximum is 1,000,000"}}
	c := newTestClient(api)

	text, err := c.CalculateArea(context.Background(), "2000000")

	var apiErr *areaapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *areaapi.APIError, got %v", err)
	}
	if text != "Error: Value too large - maximum is 1,000,000" {
		t.Fatalf("unexpected result %q", text)
	}

	if _, history, _ := api.calls(); history != 0 {
		t.Fatalf("expected no history refresh after an error, got %d", history)
	}
}

func TestCalculateAreaAPIErrorMessageShown(t *testing.T) {
	api := &fakeAPI{squareErr: &areaapi.APIError{StatusCode: 500, Message: "database unavailable"}}
	c := newTestClient(api)

	text, _ := c.CalculateArea(context.Background(), "3")
	if text != "Error: database unavailable" {
		t.Fatalf("unexpected result %q", text)
	}
}

func TestCalculateAreaConnectionFailureLogsDetail(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	api := &fakeAPI{squareErr: errors.New("dial tcp 127.0.0.1:8000: connection refused")}
	c := newTestClient(api)

	text, err := c.CalculateArea(context.Background(), "3")
	if err == nil {
		t.Fatal("expected error")
	}
	if text != ConnectionErrorMessage {
		t.Fatalf("expected %q, got %q", ConnectionErrorMessage, text)
	}

	entries := logs.FilterMessage("calculate area failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 error log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "dial tcp 127.0.0.1:8000: connection refused" {
		t.Fatalf("expected connection detail in log, got %#v", got)
	}
}

func TestLoadHistoryKeepsHeadingAndCapsEntries(t *testing.T) {
	api := &fakeAPI{history: calcs(7)}
	c := newTestClient(api)

	if err := c.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	h := c.Snapshot().History
	if h == nil {
		t.Fatal("expected history panel to be created")
	}
	if h.Heading != HistoryHeading {
		t.Fatalf("expected heading %q, got %q", HistoryHeading, h.Heading)
	}
	if len(h.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(h.Items))
	}
	if h.Items[0].Input != "7" || h.Items[4].Input != "3" {
		t.Fatalf("expected server order preserved, got %#v", h.Items)
	}
	if h.EmptyMessage != "" {
		t.Fatalf("expected no empty message, got %q", h.EmptyMessage)
	}
	if got := h.Items[0].Line(); got != "square 7 → 49 (2:07:00 PM)" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestLoadHistoryEmptyThenRepopulated(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(api)

	if err := c.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	h := c.Snapshot().History
	if len(h.Items) != 0 || h.EmptyMessage != EmptyHistoryMessage {
		t.Fatalf("expected exactly one empty-state message, got %#v", h)
	}

	api.mu.Lock()
	api.history = calcs(2)
	api.mu.Unlock()

	if err := c.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	h = c.Snapshot().History
	if len(h.Items) != 2 || h.EmptyMessage != "" || h.Heading != HistoryHeading {
		t.Fatalf("expected old content cleared and heading kept, got %#v", h)
	}
}

func TestLoadHistoryFailureLeavesPanel(t *testing.T) {
	api := &fakeAPI{history: calcs(2)}
	c := newTestClient(api)

	if err := c.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	api.mu.Lock()
	api.historyFn = func() ([]areaapi.Calculation, error) { return nil, errors.New("timeout") }
	api.mu.Unlock()

	if err := c.LoadHistory(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if h := c.Snapshot().History; len(h.Items) != 2 {
		t.Fatalf("expected previous items kept, got %#v", h)
	}
}

func TestLoadHistoryFailureBeforeFirstLoadCreatesNothing(t *testing.T) {
	api := &fakeAPI{historyFn: func() ([]areaapi.Calculation, error) { return nil, errors.New("down") }}
	c := newTestClient(api)

	_ = c.LoadHistory(context.Background())
	if c.Snapshot().History != nil {
		t.Fatal("expected no history panel after a failed first load")
	}
}

func TestLoadStats(t *testing.T) {
	api := &fakeAPI{count: 12}
	c := newTestClient(api)

	if err := c.LoadStats(context.Background()); err != nil {
		t.Fatalf("LoadStats: %v", err)
	}

	s := c.Snapshot().Stats
	if s == nil || s.Heading != StatsHeading || s.Text != "Total calculations: 12" {
		t.Fatalf("unexpected stats panel %#v", s)
	}

	api.mu.Lock()
	api.count = 13
	api.mu.Unlock()
	_ = c.LoadStats(context.Background())

	if got := c.Snapshot().Stats.Text; got != "Total calculations: 13" {
		t.Fatalf("expected re-rendered count, got %q", got)
	}
}

func TestLoadStatsFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	c := newTestClient(&fakeAPI{countErr: errors.New("refused")})
	c.setResult("Area: 4")

	if err := c.LoadStats(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	page := c.Snapshot()
	if page.Stats != nil || page.Result != "Area: 4" {
		t.Fatalf("expected page untouched, got %#v", page)
	}
	if logs.FilterMessage("failed to load stats").Len() != 1 {
		t.Fatal("expected one stats failure log")
	}
}

func TestRefreshLoadsHistoryAndStats(t *testing.T) {
	api := &fakeAPI{history: calcs(1), count: 1}
	c := newTestClient(api)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	_, history, stats := api.calls()
	if history != 1 || stats != 1 {
		t.Fatalf("expected one call each, got history=%d stats=%d", history, stats)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	c := newTestClient(&fakeAPI{history: calcs(2)})
	_ = c.LoadHistory(context.Background())

	snap := c.Snapshot()
	snap.History.Items[0].Shape = "circle"
	snap.History.Heading = "changed"

	again := c.Snapshot()
	if again.History.Items[0].Shape != "square" || again.History.Heading != HistoryHeading {
		t.Fatalf("snapshot mutation leaked into client: %#v", again.History)
	}
}

func TestRunReloadsHistoryUntilCancelled(t *testing.T) {
	api := &fakeAPI{history: calcs(1)}
	c := NewClient(api, Options{RefreshInterval: 10 * time.Millisecond, Location: time.UTC})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, history, _ := api.calls(); history >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("refresher did not reload history")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if c.Snapshot().History == nil {
		t.Fatal("expected history panel after refresh")
	}
}
