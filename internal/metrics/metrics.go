// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Refresh pipeline runs and per-stage timings
// - Document store fetches and circuit breaker state
// - Freshness age and cache efficiency

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Refresh Pipeline Metrics
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_duration_seconds",
			Help:    "Duration of full pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600}, // Full runs can take minutes
		},
	)

	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"result"}, // "success", "failure"
	)

	RefreshStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "refresh_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "extract", "join", "project", "clean", "publish"
	)

	RefreshStageRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "refresh_stage_rows",
			Help: "Row count produced by each pipeline stage in the last run",
		},
		[]string{"stage"},
	)

	RefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_errors_total",
			Help: "Total number of pipeline run errors",
		},
		[]string{"error_type"}, // "source_unavailable", "schema_mismatch", "database", "other"
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refresh_last_success_timestamp",
			Help: "Unix timestamp of last successful pipeline run",
		},
	)

	RefreshCollapsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_collapsed_requests_total",
			Help: "Total number of refresh requests collapsed into an in-flight run",
		},
	)

	FreshnessAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "freshness_age_seconds",
			Help: "Seconds elapsed since the persisted freshness record",
		},
	)

	// Document Store Metrics
	StoreFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_fetch_duration_seconds",
			Help:    "Duration of document store collection fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	StoreFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fetch_errors_total",
			Help: "Total number of document store fetch errors",
		},
		[]string{"collection"},
	)

	StoreDocumentsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_documents_fetched_total",
			Help: "Total number of documents fetched from the store",
		},
		[]string{"collection"},
	)

	// Recommendation Serving Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by serving policy",
		},
		[]string{"policy"}, // "serve", "fresh", "refresh"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation scoring in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"policy"},
	)

	RecommendationItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_items_returned",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommendations"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRefreshRun records the outcome of a full pipeline run
func RecordRefreshRun(duration time.Duration, errType string) {
	RefreshDuration.Observe(duration.Seconds())
	if errType != "" {
		RefreshRunsTotal.WithLabelValues("failure").Inc()
		RefreshErrors.WithLabelValues(errType).Inc()
	} else {
		RefreshRunsTotal.WithLabelValues("success").Inc()
		RefreshLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordRefreshStage records a completed pipeline stage
func RecordRefreshStage(stage string, duration time.Duration, rows int64) {
	RefreshStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if rows >= 0 {
		RefreshStageRows.WithLabelValues(stage).Set(float64(rows))
	}
}

// RecordStoreFetch records a document store collection fetch
func RecordStoreFetch(collection string, duration time.Duration, docs int, err error) {
	StoreFetchDuration.WithLabelValues(collection).Observe(duration.Seconds())
	if err != nil {
		StoreFetchErrors.WithLabelValues(collection).Inc()
		return
	}
	StoreDocumentsFetched.WithLabelValues(collection).Add(float64(docs))
}

// RecordRecommendation records a recommendation request by serving policy
func RecordRecommendation(policy string, duration time.Duration, items int) {
	RecommendationRequests.WithLabelValues(policy).Inc()
	RecommendationDuration.WithLabelValues(policy).Observe(duration.Seconds())
	RecommendationItems.Observe(float64(items))
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
