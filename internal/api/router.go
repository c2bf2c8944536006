package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalhouse/leadrank/internal/events"
	"github.com/signalhouse/leadrank/internal/recompute"
	"github.com/signalhouse/leadrank/internal/store"
)

func NewRouter(s store.Store, e events.Client, w *recompute.Worker, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	scoringH := NewScoringHandler(s, e, w, logger)
	leads := NewLeadsHandler(s, e)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/profiles/{profile_id}", func(r chi.Router) {
			r.Get("/scoring", scoringH.GetActive)
			r.Get("/scoring/versions", scoringH.Versions)
			r.Post("/scoring/preview", scoringH.Preview)

			r.Get("/leads", leads.List)
			r.Post("/leads", leads.Create)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(adminToken))
				r.Put("/scoring", scoringH.Commit)
				r.Post("/scoring/run", scoringH.Run)
			})
		})

		r.Get("/scoring/explain/{lead_id}", leads.Explain)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
