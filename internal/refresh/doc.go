// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package refresh orchestrates pipeline runs and recommendation
// serving. The Manager enforces at most one run in flight, collapses
// concurrent refresh requests into that run, gates conditional runs on
// the persisted freshness record, and exposes the three serving
// policies the HTTP layer offers.
package refresh
