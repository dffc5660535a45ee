package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the page, the form target and the JSON endpoints.
func RegisterRoutes(r chi.Router, h *Handlers) {
	r.Get("/", h.Index)
	r.Post("/calculate", h.Calculate)

	r.Route("/api", func(r chi.Router) {
		r.Get("/page", h.PageJSON)
		r.Post("/calculate", h.CalculateJSON)
	})
}
