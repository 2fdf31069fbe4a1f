// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/pipeline"
)

// Refresher defines the interface for the dataset refresh orchestrator.
// This allows the service to work with the refresh manager without
// circular imports.
type Refresher interface {
	// Refresh runs a full pipeline rebuild, collapsing concurrent calls.
	Refresh(ctx context.Context) (pipeline.Stats, error)
}

// RefreshLoopConfig holds configuration for the background refresh loop.
type RefreshLoopConfig struct {
	// RefreshOnStartup triggers a full rebuild when the service starts.
	RefreshOnStartup bool

	// Interval is how often to rebuild the published datasets.
	Interval time.Duration
}

// RefreshLoopService periodically rebuilds the published datasets so
// request-driven refreshes rarely pay the full pipeline cost. It is
// supervised by the data layer of the Suture tree.
type RefreshLoopService struct {
	refresher Refresher
	config    RefreshLoopConfig
	logger    zerolog.Logger
	name      string
}

// NewRefreshLoopService creates a new background refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshLoopService(refresher Refresher, cfg RefreshLoopConfig, logger zerolog.Logger) *RefreshLoopService {
	return &RefreshLoopService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "refresh_loop").Logger(),
		name:      "refresh-loop",
	}
}

// Serve implements the suture.Service interface.
// It runs the periodic rebuild loop until the context is canceled.
func (s *RefreshLoopService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("refresh loop starting")

	if s.config.RefreshOnStartup {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup refresh failed (will retry on schedule)")
		}
	}

	if s.config.Interval <= 0 {
		s.config.Interval = time.Hour
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("refresh loop shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled refresh triggered")
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled refresh failed")
			}
		}
	}
}

// refresh runs one rebuild cycle. The manager applies its own run
// timeout, so no extra deadline is layered here.
func (s *RefreshLoopService) refresh(ctx context.Context) error {
	start := time.Now()
	s.logger.Info().Msg("starting dataset refresh")

	stats, err := s.refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("run_id", stats.RunID).
		Int64("feature_rows", stats.FeatureRows).
		Dur("duration", time.Since(start)).
		Msg("dataset refresh complete")

	return nil
}

// String returns the service name for logging.
func (s *RefreshLoopService) String() string {
	return s.name
}
