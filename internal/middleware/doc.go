// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package middleware provides HTTP middleware components for the API.

This package implements infrastructure middleware for compression,
request ID tracking, security response headers, per-client rate
limiting, and Prometheus metrics instrumentation. The router composes
these with chi's stock middleware (RealIP, Recoverer) into the full
stack.

Key Components:

  - Compression: Gzip compression for clients that accept it
  - Request ID: UUID-based request tracking for distributed tracing
  - Security Headers: nosniff, frame denial, referrer policy, HSTS
  - Rate Limiter: token-bucket limiting keyed by client IP
  - Prometheus Metrics: HTTP request/response instrumentation

Thread Safety:

All middleware components are safe for concurrent use:
  - Compression pools gzip writers with sync.Pool
  - Rate limiter uses mutex-guarded state
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
