package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter serves the health check and the metrics exposition.
func NewRouter(health http.Handler, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", health.ServeHTTP)
	r.Handle("/metrics", metrics)
	return r
}
