// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package refresh

import (
	"context"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Serving policy names, matching the route suffixes that select them.
const (
	PolicyServe        = "serve"
	PolicyServeFresh   = "fresh"
	PolicyServeRefresh = "refresh"
)

// Serve scores against the features table as-is, without running the
// pipeline. When stamp-on-serve is enabled the freshness record is
// stamped afterwards even though nothing was refreshed, so a later
// conditional refresh considers the data fresh. That carries over the
// long-standing behavior of the serve path and is configurable.
func (m *Manager) Serve(ctx context.Context, customerID string, count int) ([]recommend.ScoredItem, error) {
	items, err := m.score(ctx, PolicyServe, customerID, count)
	if err != nil {
		return nil, err
	}

	if m.stampOnServe {
		if err := m.log.Stamp(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stamp freshness record on serve")
		}
	}
	return items, nil
}

// ServeAfterRefresh always runs the pipeline first (collapsing into an
// in-flight run), then scores.
func (m *Manager) ServeAfterRefresh(ctx context.Context, customerID string, count int) ([]recommend.ScoredItem, error) {
	if _, err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return m.score(ctx, PolicyServeRefresh, customerID, count)
}

// ServeFresh runs the pipeline only when the freshness record is
// stale, then scores.
func (m *Manager) ServeFresh(ctx context.Context, customerID string, count int) ([]recommend.ScoredItem, error) {
	if _, refreshed, err := m.RefreshIfStale(ctx); err != nil {
		return nil, err
	} else if refreshed {
		logging.Debug().Str("customer_id", customerID).Msg("Stale data refreshed before serving")
	}
	return m.score(ctx, PolicyServeFresh, customerID, count)
}

// score runs the scorer, logs its engine stats, and records metrics.
// Only the ranked list travels to the caller.
func (m *Manager) score(ctx context.Context, policy, customerID string, count int) ([]recommend.ScoredItem, error) {
	start := time.Now()
	items, stats, err := m.scorer.Score(ctx, customerID, count)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(policy, time.Since(start), len(items))
	logging.Debug().
		Str("policy", policy).
		Str("customer_id", customerID).
		Str("source", stats.Source).
		Int("user_interactions", stats.UserInteractions).
		Int("candidates", stats.Candidates).
		Int("items", len(items)).
		Dur("elapsed", stats.Elapsed).
		Msg("Recommendations scored")
	return items, nil
}
