// Package http assembles the InsightBoard HTTP API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/handlers"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil members disable the routes or middleware they serve.
type RouterConfig struct {
	DashboardHandler *handlers.DashboardHandler
	HealthHandler    *handlers.HealthHandler

	Logger         logging.Logger
	Logging        middleware.LoggingConfig
	CORS           middleware.CORSConfig
	HTTPMetrics    middleware.HTTPMetrics
	MetricsHandler http.Handler
	MetricsPath    string
	// WriteLimiter throttles the refresh and export endpoints.
	WriteLimiter middleware.RateLimiter
}

// NewRouter builds the route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger.Named("http"), cfg.Logging))
	r.Use(chimw.Recoverer)
	if cfg.HTTPMetrics != nil {
		r.Use(middleware.Metrics(cfg.HTTPMetrics))
	}
	r.Use(middleware.CORS(cfg.CORS))

	if h := cfg.HealthHandler; h != nil {
		r.Get("/healthz", h.Liveness)
		r.Get("/readyz", h.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle(cfg.MetricsPath, cfg.MetricsHandler)
	}

	if h := cfg.DashboardHandler; h != nil {
		r.Get("/api/data", h.RawData)
		r.Route("/api/v1", func(api chi.Router) {
			registerDashboardRoutes(api, h, cfg.WriteLimiter)
		})
	}
	return r
}

// registerDashboardRoutes mounts the read views and, behind the write
// limiter, the endpoints that trigger upstream work.
func registerDashboardRoutes(r chi.Router, h *handlers.DashboardHandler, limiter middleware.RateLimiter) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/records", h.Records)
	r.Get("/facets", h.Facets)
	r.Get("/stats", h.Stats)
	r.Route("/charts", func(cr chi.Router) {
		cr.Get("/sectors", h.Sectors)
		cr.Get("/heatmap", h.Heatmap)
		cr.Get("/scatter", h.Scatter)
		cr.Get("/years", h.Years)
	})
	r.Get("/dataset", h.Dataset)

	r.Group(func(wr chi.Router) {
		if limiter != nil {
			wr.Use(middleware.RateLimit(limiter, nil))
		}
		wr.Post("/dataset/refresh", h.Refresh)
		wr.Post("/exports", h.Export)
	})
}

//Personal.AI order the ending
