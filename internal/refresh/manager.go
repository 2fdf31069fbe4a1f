// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package refresh

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/freshness"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/pipeline"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Runner executes one full pipeline run. Satisfied by
// *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) (pipeline.Stats, error)
}

// stageNotifier is implemented by runners that can report stage
// transitions. *pipeline.Pipeline implements it.
type stageNotifier interface {
	SetStageHook(fn func(stage string))
}

// Manager serializes pipeline runs and serves recommendations under
// the three refresh policies. All methods are safe for concurrent use.
type Manager struct {
	runner       Runner
	scorer       recommend.Scorer
	log          *freshness.Log
	threshold    time.Duration
	runTimeout   time.Duration
	stampOnServe bool

	group singleflight.Group

	mu          sync.Mutex
	state       State
	lastRun     *pipeline.Stats
	lastErr     error
	onCompleted func()
}

// NewManager wires the orchestrator. If runner reports stage
// transitions, the manager's state follows them.
func NewManager(runner Runner, scorer recommend.Scorer, log *freshness.Log, cfg *config.Config) *Manager {
	m := &Manager{
		runner:       runner,
		scorer:       scorer,
		log:          log,
		threshold:    cfg.Refresh.Threshold,
		runTimeout:   cfg.Refresh.RunTimeout,
		stampOnServe: cfg.Refresh.StampOnServe,
		state:        StateIdle,
	}
	if notifier, ok := runner.(stageNotifier); ok {
		notifier.SetStageHook(func(stage string) {
			m.setState(stageState(stage))
		})
	}
	return m
}

// SetOnRefreshCompleted registers a callback fired after every
// successful run, before Refresh returns. The HTTP layer uses it to
// invalidate its response cache. Must be set before the first run.
func (m *Manager) SetOnRefreshCompleted(fn func()) {
	m.mu.Lock()
	m.onCompleted = fn
	m.mu.Unlock()
}

// Refresh runs the pipeline, collapsing into an in-flight run if one
// exists; every collapsed caller receives that run's result. The
// executed run is detached from the triggering request's cancellation
// and bounded only by the configured run timeout.
func (m *Manager) Refresh(ctx context.Context) (pipeline.Stats, error) {
	v, err, shared := m.group.Do("run", func() (interface{}, error) {
		return m.execute(ctx)
	})
	if shared {
		metrics.RefreshCollapsed.Inc()
		logging.Debug().Msg("Refresh collapsed into in-flight run")
	}

	stats, _ := v.(pipeline.Stats)
	return stats, err
}

// RefreshIfStale runs the pipeline only when the freshness record is
// older than the threshold (or missing or unreadable). It reports
// whether a run happened.
func (m *Manager) RefreshIfStale(ctx context.Context) (pipeline.Stats, bool, error) {
	if !m.log.IsStale(m.threshold) {
		return pipeline.Stats{}, false, nil
	}
	stats, err := m.Refresh(ctx)
	return stats, true, err
}

// execute performs one run under the singleflight lock.
func (m *Manager) execute(ctx context.Context) (pipeline.Stats, error) {
	runCtx := context.WithoutCancel(ctx)
	if m.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, m.runTimeout)
		defer cancel()
	}

	m.setState(StateExtracting)
	start := time.Now()

	stats, err := m.runner.Run(runCtx)
	if err != nil {
		m.mu.Lock()
		m.state = StateFailed
		m.lastErr = err
		m.mu.Unlock()

		metrics.RecordRefreshRun(time.Since(start), pipeline.ErrorType(err))
		logging.Error().Err(err).Str("run_id", stats.RunID).Msg("Refresh run failed")
		return stats, err
	}

	m.setState(StateLoggingFreshness)
	if err := m.log.Stamp(); err != nil {
		// The artifacts are published; a missing stamp only makes the
		// next conditional refresh run again.
		logging.Warn().Err(err).Msg("Failed to stamp freshness record")
	}

	m.mu.Lock()
	m.state = StateIdle
	m.lastRun = &stats
	m.lastErr = nil
	callback := m.onCompleted
	m.mu.Unlock()

	metrics.RecordRefreshRun(time.Since(start), "")
	if callback != nil {
		callback()
	}

	logging.Info().
		Str("run_id", stats.RunID).
		Int64("features", stats.FeatureRows).
		Dur("duration", stats.Duration).
		Msg("Refresh run succeeded")
	return stats, nil
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Status is a point-in-time snapshot of the orchestrator.
type Status struct {
	State       State           `json:"state"`
	Stale       bool            `json:"stale"`
	Threshold   string          `json:"threshold"`
	LastRefresh *time.Time      `json:"last_refresh,omitempty"`
	Age         string          `json:"age,omitempty"`
	LastRun     *pipeline.Stats `json:"last_run,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
}

// Status reports the current run state and freshness.
func (m *Manager) Status() Status {
	m.mu.Lock()
	st := Status{
		State:     m.state,
		Threshold: m.threshold.String(),
		LastRun:   m.lastRun,
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	m.mu.Unlock()

	st.Stale = m.log.IsStale(m.threshold)
	if ts, ok := m.log.LastRefresh(); ok {
		st.LastRefresh = &ts
	}
	if age, ok := m.log.Age(); ok {
		st.Age = age.Truncate(time.Second).String()
	}
	return st
}

// ObserveFreshness exports the current freshness age gauge. Called
// periodically by the freshness probe service.
func (m *Manager) ObserveFreshness() {
	if age, ok := m.log.Age(); ok {
		metrics.FreshnessAge.Set(age.Seconds())
	}
}
