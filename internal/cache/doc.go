// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package cache provides a thread-safe in-memory TTL cache for HTTP
// response payloads. The refresh orchestrator clears it after every
// successful pipeline run so cached recommendations never outlive the
// artifacts they were scored from. Hit, miss, size, and eviction
// counts are exported as Prometheus metrics labeled by cache name.
package cache
