package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/middleware"
	"github.com/alex-user-go/travelsearch/internal/obs"
	"github.com/alex-user-go/travelsearch/internal/search/ratelimit"
)

// RegisterRoutes mounts the search API on router.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/search", h.Search)
	router.Get("/search/status", h.Status)
	router.Get("/search/health", h.Health)
}

// NewRouter builds the service router: operational endpoints at the root and
// the rate limited search API under /api.
func NewRouter(h *Handler, limiter *ratelimit.Limiter, metrics *obs.Metrics, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recover(logger))
	router.Use(chimw.StripSlashes)

	router.Get("/healthz", obs.HealthHandler(logger))
	router.Get("/metrics", metrics.MetricsHandler())

	router.Route("/api", func(api chi.Router) {
		api.Use(RateLimit(limiter, metrics, logger))
		h.RegisterRoutes(api)
		api.NotFound(NotFound)
		api.MethodNotAllowed(NotFound)
	})

	router.NotFound(NotFound)
	router.MethodNotAllowed(NotFound)
	return router
}
