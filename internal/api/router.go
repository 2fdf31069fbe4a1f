// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/middleware"
)

// Router assembles the HTTP surface from the handler set and the
// middleware stack.
type Router struct {
	handler     *Handler
	cfg         *config.Config
	rateLimiter *middleware.RateLimiter
}

// NewRouter creates the router. Call Close on shutdown to stop the
// rate limiter's eviction loop.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		cfg:     cfg,
		rateLimiter: middleware.NewRateLimiter(
			cfg.API.RateLimitReqs,
			cfg.API.RateLimitWindow,
			cfg.API.RateLimitDisabled,
		),
	}
}

// Close releases router-owned resources.
func (router *Router) Close() {
	router.rateLimiter.Stop()
}

// chiMiddleware adapts a HandlerFunc-shaped middleware to chi's
// Handler-shaped signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chiMiddleware(middleware.SecurityHeaders))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.API.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	// Health probes get a generous independent limit so orchestrator
	// checks never compete with API traffic for budget.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(600, router.cfg.API.RateLimitWindow))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimiter.Middleware)
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Route("/recommendations/user/{userID}", func(r chi.Router) {
			r.Get("/", router.handler.Recommendations)
			r.Get("/fresh", router.handler.RecommendationsFresh)
			r.Get("/refresh", router.handler.RecommendationsRefresh)
		})

		r.Post("/refresh", router.handler.TriggerRefresh)
		r.Get("/refresh/status", router.handler.RefreshStatus)

		r.Get("/datasets/{dataset}", router.handler.Datasets)
	})

	// Observability
	if router.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if router.cfg.API.SwaggerEnabled {
		r.Get("/swagger/doc.json", serveOpenAPISpec)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("list"),
			httpSwagger.DomID("swagger-ui"),
		))
	}

	return r
}
