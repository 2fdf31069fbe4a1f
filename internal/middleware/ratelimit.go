// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces per-client token-bucket rate limits keyed by
// IP, with periodic eviction of idle buckets.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	disabled bool
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows reqsPerWindow requests per window for each
// client, with a burst of the full window allowance. A disabled
// limiter passes everything through.
func NewRateLimiter(reqsPerWindow int, window time.Duration, disabled bool) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(float64(reqsPerWindow) / window.Seconds()),
		burst:    reqsPerWindow,
		disabled: disabled,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop(10 * time.Minute)
	return rl
}

// Allow reports whether a request from the client may proceed.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.disabled {
		return true
	}

	rl.mu.Lock()
	entry, exists := rl.limiters[client]
	if !exists {
		entry = &limiterEntry{
			limiter:    rate.NewLimiter(rl.rate, rl.burst),
			lastAccess: time.Now(),
		}
		rl.limiters[client] = entry
	} else {
		entry.lastAccess = time.Now()
	}
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop halts the background eviction loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup evicts buckets idle for over an hour.
func (rl *RateLimiter) cleanup() {
	threshold := time.Now().Add(-time.Hour)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, client)
		}
	}
}

// clientIP trusts RemoteAddr, which chi's RealIP middleware has
// already rewritten from X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
