// Package api exposes assessments over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the API router.
func NewRouter(provider contract.TableProvider, cfg *contract.Config, m *Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))

	assessments := NewAssessmentsHandler(provider, cfg, m, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/questionnaire", assessments.Questionnaire)
		r.Post("/assessments", assessments.Assess)
		r.Post("/assessments/export", assessments.Export)
		r.Post("/tables/reload", assessments.ReloadTables)
	})

	return r
}

// NewMetricsRouter serves health and Prometheus metrics.
func NewMetricsRouter(m *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return r
}
