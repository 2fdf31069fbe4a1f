// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/store"
)

// Stats describes one pipeline run. Per-stage row counts make silent
// join loss observable: AggregatedRows < InteractionRows means that
// many interactions carried dangling foreign keys.
type Stats struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	InteractionRows int64 `json:"interaction_rows"`
	CustomerRows    int64 `json:"customer_rows"`
	ProductRows     int64 `json:"product_rows"`
	CategoryRows    int64 `json:"category_rows"`
	AggregatedRows  int64 `json:"aggregated_rows"`
	ProcessedRows   int64 `json:"processed_rows"`
	FeatureRows     int64 `json:"feature_rows"`
}

// Pipeline executes one full extract-join-project-clean run against the
// analytics database. It is safe to share between goroutines only
// through the refresh orchestrator, which serializes runs.
type Pipeline struct {
	db              *database.DB
	source          store.Reader
	batchSize       int
	exportSnapshots bool
	artifactsDir    string

	// stageHook, when set, is called with each stage name as the stage
	// begins. The refresh orchestrator uses it to surface run state.
	stageHook func(stage string)
}

// SetStageHook registers a callback invoked at the start of every
// stage. Must be set before the first Run.
func (p *Pipeline) SetStageHook(fn func(stage string)) {
	p.stageHook = fn
}

// New creates a pipeline reading from source and writing to db.
func New(db *database.DB, source store.Reader, cfg *config.Config) *Pipeline {
	return &Pipeline{
		db:              db,
		source:          source,
		batchSize:       cfg.Source.BatchSize,
		exportSnapshots: cfg.Refresh.ExportSnapshots,
		artifactsDir:    cfg.Refresh.ArtifactsDir,
	}
}

// Run executes every stage in order and publishes the result. On
// failure the published tables keep their previous content; only
// staging tables are left behind, and the next run replaces them.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	stats := Stats{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	logging.Info().Str("run_id", stats.RunID).Msg("Pipeline run starting")

	if err := p.extract(ctx, &stats); err != nil {
		return stats, fmt.Errorf("extract: %w", err)
	}
	if err := p.join(ctx, &stats); err != nil {
		return stats, fmt.Errorf("join: %w", err)
	}
	if err := p.project(ctx, &stats); err != nil {
		return stats, fmt.Errorf("project: %w", err)
	}
	if err := p.clean(ctx, &stats); err != nil {
		return stats, fmt.Errorf("clean: %w", err)
	}

	if p.stageHook != nil {
		p.stageHook("publish")
	}
	publishStart := time.Now()
	if err := p.db.PublishStaging(ctx); err != nil {
		return stats, fmt.Errorf("publish: %w", err)
	}
	metrics.RecordRefreshStage("publish", time.Since(publishStart), stats.FeatureRows)

	if p.exportSnapshots {
		// Snapshots are an operational convenience. The artifacts are
		// already published; a snapshot failure does not fail the run.
		if err := p.ExportSnapshots(ctx, p.artifactsDir); err != nil {
			logging.Warn().Err(err).Str("run_id", stats.RunID).Msg("Snapshot export failed")
		}
	}

	stats.Duration = time.Since(stats.StartedAt)

	logging.Info().
		Str("run_id", stats.RunID).
		Int64("interactions", stats.InteractionRows).
		Int64("aggregated", stats.AggregatedRows).
		Int64("features", stats.FeatureRows).
		Dur("duration", stats.Duration).
		Msg("Pipeline run completed")

	return stats, nil
}

// runStage times a stage, records its metrics, and logs its outcome.
func (p *Pipeline) runStage(ctx context.Context, name string, fn func(context.Context) (int64, error)) (int64, error) {
	if p.stageHook != nil {
		p.stageHook(name)
	}
	start := time.Now()
	rows, err := fn(ctx)
	metrics.RecordRefreshStage(name, time.Since(start), rows)

	if err != nil {
		logging.Error().Err(err).Str("stage", name).Msg("Pipeline stage failed")
		return rows, err
	}

	logging.Debug().
		Str("stage", name).
		Int64("rows", rows).
		Dur("duration", time.Since(start)).
		Msg("Pipeline stage completed")

	return rows, nil
}
