package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"square-area-client/internal/calculator"
	"square-area-client/internal/handlers"
	"square-area-client/internal/observability"
)

func NewRouter(calc *calculator.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calc)

	return r
}
