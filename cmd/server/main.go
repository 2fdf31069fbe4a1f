// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/shelfwise/internal/api"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/freshness"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/pipeline"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/refresh"
	"github.com/tomtom215/shelfwise/internal/store"
	"github.com/tomtom215/shelfwise/internal/supervisor"
	"github.com/tomtom215/shelfwise/internal/supervisor/services"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Shelfwise with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("source_database", cfg.Source.Database).
		Dur("staleness_threshold", cfg.Refresh.Threshold).
		Msg("Configuration loaded")

	// Initialize the local analytics database holding published datasets
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Connect to the upstream document store. The circuit breaker stops
	// refresh attempts from hammering an unavailable source. A failed
	// ping is non-fatal: published datasets keep serving without it.
	sourceClient, err := store.New(cfg.Source)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create source store client")
	}
	defer func() {
		if err := sourceClient.Close(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Error closing source store client")
		}
	}()

	source := store.NewFetchBreaker(sourceClient)
	if err := source.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Source store unreachable (refreshes will fail until it recovers)")
	} else {
		logging.Info().Msg("Connected to source store successfully")
	}

	// Recommendation scorer reads the published feature table
	provider := database.NewProvider(db)
	scorer := recommend.NewCoVisitScorer(provider)

	// Pipeline and refresh orchestration
	pipe := pipeline.New(db, source, cfg)
	freshLog := freshness.NewLog(cfg.Refresh.ArtifactsDir)
	manager := refresh.NewManager(pipe, scorer, freshLog, cfg)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := api.NewHandler(db, manager, source, cfg, version)
	defer handler.Close()

	// Invalidate cached responses after every successful refresh so the
	// next serve sees the new tables
	manager.SetOnRefreshCompleted(handler.ClearCache)

	router := api.NewRouter(handler, cfg)
	defer router.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	if cfg.Refresh.AutoInterval > 0 {
		tree.AddDataService(services.NewRefreshLoopService(manager, services.RefreshLoopConfig{
			RefreshOnStartup: true,
			Interval:         cfg.Refresh.AutoInterval,
		}, logging.Logger()))
		logging.Info().Dur("interval", cfg.Refresh.AutoInterval).Msg("Background refresh loop added to supervisor tree")
	} else {
		logging.Info().Msg("Background refresh disabled - refreshes are request-driven")
	}

	tree.AddDataService(services.NewFreshnessProbeService(manager, 30*time.Second, logging.Logger()))

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
