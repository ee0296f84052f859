package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/bridgecheck/internal/adapter/http/handler"
	"github.com/iho/bridgecheck/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
// RateLimiter, HTTPMetrics and MetricsHandler are optional.
type RouterConfig struct {
	BridgeHandler  *handler.BridgeHandler
	HealthHandler  *handler.HealthHandler
	Logger         zerolog.Logger
	RateLimiter    *middleware.RateLimiter
	HTTPMetrics    *middleware.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Route("/bridge", func(r chi.Router) {
			r.Post("/validate", cfg.BridgeHandler.Validate)
			r.Get("/status/{token}", cfg.BridgeHandler.Status)
		})
	})

	return r
}
