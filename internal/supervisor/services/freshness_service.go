// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// FreshnessObserver exports the current dataset age as a gauge.
type FreshnessObserver interface {
	ObserveFreshness()
}

// FreshnessProbeService periodically samples the freshness log so the
// dataset-age gauge keeps advancing between refreshes. Without it the
// gauge would only move when a refresh or a gated serve runs.
type FreshnessProbeService struct {
	observer FreshnessObserver
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewFreshnessProbeService creates a new freshness probe.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFreshnessProbeService(observer FreshnessObserver, interval time.Duration, logger zerolog.Logger) *FreshnessProbeService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &FreshnessProbeService{
		observer: observer,
		interval: interval,
		logger:   logger.With().Str("service", "freshness_probe").Logger(),
		name:     "freshness-probe",
	}
}

// Serve implements the suture.Service interface.
func (s *FreshnessProbeService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("freshness probe starting")

	s.observer.ObserveFreshness()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("freshness probe shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.observer.ObserveFreshness()
		}
	}
}

// String returns the service name for logging.
func (s *FreshnessProbeService) String() string {
	return s.name
}
