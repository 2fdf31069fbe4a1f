// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "features",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "stage_interactions",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "CREATE",
			table:     "stage_aggregated",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "SELECT",
			table:     "products",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
		{
			name:      "fast query under 1ms",
			operation: "SELECT",
			table:     "customers",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	// Error with exactly 50 characters
	err50 := errors.New(strings.Repeat("a", 50))
	RecordDBQuery("SELECT", "test", time.Millisecond, err50)

	// Error with 51 characters - should truncate
	err51 := errors.New(strings.Repeat("b", 51))
	RecordDBQuery("SELECT", "test", time.Millisecond, err51)

	// Error with 100 characters - should truncate
	err100 := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "test", time.Millisecond, err100)

	// Very short error
	errShort := errors.New("err")
	RecordDBQuery("SELECT", "test", time.Millisecond, errShort)
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful recommendation request",
			method:     "GET",
			endpoint:   "/api/v1/recommendations/user/{userID}",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "refresh trigger",
			method:     "POST",
			endpoint:   "/api/v1/refresh",
			statusCode: "200",
			duration:   150 * time.Millisecond,
		},
		{
			name:       "not found request",
			method:     "GET",
			endpoint:   "/api/v1/unknown",
			statusCode: "404",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "source unavailable",
			method:     "GET",
			endpoint:   "/api/v1/recommendations/user/{userID}/refresh",
			statusCode: "503",
			duration:   500 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/api/v1/datasets/interactions",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestRecordRefreshRun tests pipeline run outcome recording
func TestRecordRefreshRun(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		errType  string
	}{
		{"successful run", 12 * time.Second, ""},
		{"source unavailable", 30 * time.Second, "source_unavailable"},
		{"schema mismatch", 2 * time.Second, "schema_mismatch"},
		{"database failure", 5 * time.Second, "database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordRefreshRun(tt.duration, tt.errType)
		})
	}
}

// TestRecordRefreshStage tests per-stage metric recording
func TestRecordRefreshStage(t *testing.T) {
	stages := []struct {
		stage string
		rows  int64
	}{
		{"extract", 100000},
		{"join", 98500},
		{"project", 98500},
		{"clean", 97200},
		{"publish", -1}, // no row count for publish
	}

	for _, s := range stages {
		RecordRefreshStage(s.stage, 500*time.Millisecond, s.rows)
	}
}

// TestRecordStoreFetch tests document store fetch recording
func TestRecordStoreFetch(t *testing.T) {
	RecordStoreFetch("interactions", 2*time.Second, 50000, nil)
	RecordStoreFetch("customers", time.Second, 1200, nil)
	RecordStoreFetch("products", time.Second, 800, errors.New("context deadline exceeded"))
}

// TestRecordRecommendation tests recommendation serving metrics
func TestRecordRecommendation(t *testing.T) {
	policies := []string{"serve", "fresh", "refresh"}
	for _, policy := range policies {
		RecordRecommendation(policy, 15*time.Millisecond, 5)
	}
	RecordRecommendation("serve", time.Millisecond, 0)
}

// TestTrackActiveRequest tests the active request gauge
func TestTrackActiveRequest(t *testing.T) {
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	TrackActiveRequest(false)
}

// TestCacheMetrics tests general cache metrics
func TestCacheMetrics(t *testing.T) {
	CacheHits.WithLabelValues("recommendations").Add(100)
	CacheMisses.WithLabelValues("recommendations").Add(20)
	CacheSize.WithLabelValues("recommendations").Set(50)
	CacheEvictions.WithLabelValues("recommendations").Add(5)
}

// TestAPIRateLimitHits tests rate limit hit counter
func TestAPIRateLimitHits(t *testing.T) {
	endpoints := []string{
		"/api/v1/recommendations/user/{userID}",
		"/api/v1/refresh",
		"/api/v1/datasets/products",
	}

	for _, endpoint := range endpoints {
		APIRateLimitHits.WithLabelValues(endpoint).Inc()
	}
}

// TestAppMetrics tests application-level metrics
func TestAppMetrics(t *testing.T) {
	AppInfo.WithLabelValues("0.3.0", "go1.24").Set(1)
	AppUptime.Set(3600)
	AppUptime.Add(60)
}

// TestFreshnessAge tests the freshness age gauge
func TestFreshnessAge(t *testing.T) {
	FreshnessAge.Set(0)
	FreshnessAge.Set(1800)
	FreshnessAge.Set(3601)
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	// Test that all metrics can be collected without panic
	collectors := []prometheus.Collector{
		DBQueryDuration,
		DBQueryErrors,
		DBConnectionPoolSize,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		RefreshDuration,
		RefreshRunsTotal,
		RefreshStageDuration,
		RefreshStageRows,
		RefreshErrors,
		RefreshLastSuccess,
		RefreshCollapsed,
		FreshnessAge,
		StoreFetchDuration,
		StoreFetchErrors,
		StoreDocumentsFetched,
		RecommendationRequests,
		RecommendationDuration,
		RecommendationItems,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerTransitions,
		AppInfo,
		AppUptime,
	}

	// Verify each metric can be described
	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		// Should have at least one descriptor
		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	// Record some metrics
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	// Verify we can lint the metrics (checks for consistency issues)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

// Benchmark tests for metrics performance

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("SELECT", "features", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/v1/recommendations", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordRefreshRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRefreshRun(5*time.Second, "")
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}
