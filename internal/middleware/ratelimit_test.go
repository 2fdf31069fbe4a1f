// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, false)
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst was rejected", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over burst was allowed")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first client rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client throttled by first client's bucket")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, true)
	defer rl.Stop()

	for i := 0; i < 100; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, false)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over-limit request: got status %d, want 429", rec.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.mu.Lock()
	rl.limiters["10.0.0.1"].lastAccess = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()

	rl.cleanup()

	rl.mu.Lock()
	_, exists := rl.limiters["10.0.0.1"]
	rl.mu.Unlock()
	if exists {
		t.Error("idle bucket survived cleanup")
	}
}
