// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"time"

	"github.com/tomtom215/shelfwise/internal/cache"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/pipeline"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/refresh"
	"github.com/tomtom215/shelfwise/internal/store"
)

// RefreshManager is the slice of the refresh orchestrator the HTTP
// layer needs. Satisfied by *refresh.Manager.
type RefreshManager interface {
	Refresh(ctx context.Context) (pipeline.Stats, error)
	Status() refresh.Status
	Serve(ctx context.Context, customerID string, count int) ([]recommend.ScoredItem, error)
	ServeAfterRefresh(ctx context.Context, customerID string, count int) ([]recommend.ScoredItem, error)
	ServeFresh(ctx context.Context, customerID string, count int) ([]recommend.ScoredItem, error)
}

// Handler holds the dependencies of every HTTP endpoint.
type Handler struct {
	db        *database.DB
	manager   RefreshManager
	source    store.Reader
	cfg       *config.Config
	cache     *cache.Cache
	version   string
	startTime time.Time
}

// NewHandler creates the endpoint handler set. source may be nil in
// tests; the readiness probe then skips the document-store check.
func NewHandler(db *database.DB, manager RefreshManager, source store.Reader, cfg *config.Config, version string) *Handler {
	return &Handler{
		db:        db,
		manager:   manager,
		source:    source,
		cfg:       cfg,
		cache:     cache.New("recommendations", cfg.Recommend.CacheTTL),
		version:   version,
		startTime: time.Now(),
	}
}

// ClearCache drops every cached response. Wired to the refresh
// orchestrator's completion callback.
func (h *Handler) ClearCache() {
	h.cache.Clear()
}

// Close releases handler-owned resources.
func (h *Handler) Close() {
	h.cache.Close()
}
