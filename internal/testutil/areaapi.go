package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is one call received by an AreaAPIStub.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type stubResponse struct {
	status int
	body   string
}

// AreaAPIStub is an httptest server standing in for the remote area API.
// Routes answer with canned JSON; unknown routes answer 404.
type AreaAPIStub struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]stubResponse
	requests  []RecordedRequest
}

// NewAreaAPIStub starts a stub that is closed when the test ends.
func NewAreaAPIStub(t testing.TB) *AreaAPIStub {
	t.Helper()

	s := &AreaAPIStub{responses: make(map[string]stubResponse)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Server.Close)
	return s
}

// URL is the stub's base URL.
func (s *AreaAPIStub) URL() string { return s.Server.URL }

// Respond sets the answer for method and path, e.g. ("GET", "/api/stats/count").
func (s *AreaAPIStub) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = stubResponse{status: status, body: body}
}

// Requests returns every request received so far.
func (s *AreaAPIStub) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Calls counts requests received for method and path.
func (s *AreaAPIStub) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *AreaAPIStub) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
