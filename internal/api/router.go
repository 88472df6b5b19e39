// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelytics/reelytics/internal/config"
	"github.com/reelytics/reelytics/internal/middleware"
)

// NewRouter configures all HTTP routes using the Chi router.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack, applied to all routes in order.
	r.Use(middleware.RequestID)       // X-Request-ID header + logging context
	r.Use(chimiddleware.RealIP)       // extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)    // recover from panics
	r.Use(corsMiddleware(cfg))        // must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	// Health endpoints: no rate limiting so monitors can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", handler.Health)
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	// Analytics endpoints: read-only queries over the in-memory table.
	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(rateLimitMiddleware(cfg))

		r.Get("/most-popular", handler.MostPopular)
		r.Get("/top-rated", handler.TopRated)
		r.Get("/by-genre", handler.ByGenre)
		r.Get("/yearly-trends", handler.YearlyTrends)
		r.Get("/language-stats", handler.LanguageStats)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// corsMiddleware builds the CORS handler from the configured origin list.
// An empty origin list denies cross-origin access by default.
func corsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	})
}

// rateLimitMiddleware builds the per-IP rate limiter, or a no-op when rate
// limiting is disabled via configuration.
func rateLimitMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.Server.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		cfg.Server.RateLimitRequests,
		cfg.Server.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}
