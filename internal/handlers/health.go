package handlers

import "net/http"

// Health handles GET /health. It does not probe the area API; a down API
// still leaves the page usable.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
