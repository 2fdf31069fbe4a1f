// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements comprehensive application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - API request latency and throughput
  - Database query performance (DuckDB)
  - Refresh pipeline runs and per-stage timings
  - Document store fetch statistics
  - Circuit breaker state transitions
  - Data freshness age
  - Cache hit/miss rates

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Connections in use (gauge)

Refresh Pipeline Metrics:
  - refresh_duration_seconds: Full pipeline run duration (histogram)
    Buckets: 1, 5, 10, 30, 60, 120, 300, 600
  - refresh_runs_total: Pipeline runs by outcome (counter)
    Labels: result (success, failure)
  - refresh_stage_duration_seconds: Per-stage duration (histogram)
    Labels: stage (extract, join, project, clean, publish)
  - refresh_stage_rows: Row count per stage in the last run (gauge)
    Labels: stage
  - refresh_errors_total: Pipeline errors (counter)
    Labels: error_type (source_unavailable, schema_mismatch, database, other)
  - refresh_last_success_timestamp: Unix timestamp of last successful run (gauge)
  - refresh_collapsed_requests_total: Requests collapsed into in-flight runs (counter)
  - freshness_age_seconds: Age of the persisted freshness record (gauge)

Document Store Metrics:
  - store_fetch_duration_seconds: Collection fetch duration (histogram)
    Labels: collection
  - store_fetch_errors_total: Failed fetches (counter)
    Labels: collection
  - store_documents_fetched_total: Documents fetched (counter)
    Labels: collection

Recommendation Metrics:
  - recommendation_requests_total: Requests by serving policy (counter)
    Labels: policy (serve, fresh, refresh)
  - recommendation_duration_seconds: Scoring duration (histogram)
    Labels: policy
  - recommendation_items_returned: Items per response (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breaker (counter)
    Labels: name, result
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

Cache Metrics:
  - cache_hits_total: Cache hits (counter)
    Labels: cache_type
  - cache_misses_total: Cache misses (counter)
    Labels: cache_type
  - cache_entries: Current cached entries (gauge)
    Labels: cache_type
  - cache_evictions_total: TTL evictions (counter)
    Labels: cache_type

# Usage Example

Recording pipeline metrics:

	start := time.Now()
	err := pipeline.Run(ctx)
	if err != nil {
	    metrics.RecordRefreshRun(time.Since(start), "source_unavailable")
	} else {
	    metrics.RecordRefreshRun(time.Since(start), "")
	}

Recording database query metrics:

	func (db *Database) Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error) {
	    start := time.Now()
	    rows, err := db.conn.QueryContext(ctx, sql, args...)
	    metrics.RecordDBQuery("select", "features", time.Since(start), err)
	    return rows, err
	}

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'shelfwise'
	    static_configs:
	      - targets: ['localhost:8000']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# API request rate
	rate(api_requests_total[5m])

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Refresh failure ratio
	rate(refresh_runs_total{result="failure"}[1h]) / rate(refresh_runs_total[1h])

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

	# Data staleness alert candidate
	freshness_age_seconds > 3600

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use route patterns, never raw paths with IDs
  - Error types are truncated and limited to predefined constants where possible
  - User-specific labels are avoided

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/database: Database metrics recording
  - internal/refresh: Pipeline run metrics
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
