// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package services provides suture.Service wrappers for Shelfwise components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns (Run, ListenAndServe, ticker
loops) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation to the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Refresh Loop (RefreshLoopService):
  - Runs the ETL pipeline on a fixed schedule
  - Optional refresh on startup
  - Keeps serving on refresh failure; the supervisor restarts it
    only when the loop itself crashes

Freshness Probe (FreshnessProbeService):
  - Periodically samples the freshness log
  - Keeps the dataset-age gauge advancing between refreshes

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/tomtom215/shelfwise/internal/supervisor"
	    "github.com/tomtom215/shelfwise/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, manager *refresh.Manager) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 30s shutdown timeout
	    httpSvc := services.NewHTTPServerService(server, 30*time.Second)
	    tree.AddAPIService(httpSvc)

	    // Background refresh loop
	    loopSvc := services.NewRefreshLoopService(manager, services.RefreshLoopConfig{
	        Interval: time.Hour,
	    }, logger)
	    tree.AddDataService(loopSvc)

	    // Start supervision
	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

Loop services treat component failures (a refresh run erroring out) as
log-and-continue; they only return an error when the loop itself can no
longer run.

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *RefreshLoopService) String() string {
	    return "refresh-loop"
	}

Suture uses this for log messages:

	INFO refresh-loop: starting
	INFO refresh-loop: stopped
	ERROR refresh-loop: restarting after failure

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
  - internal/refresh: Refresh orchestration wrapped by RefreshLoopService
*/
package services
