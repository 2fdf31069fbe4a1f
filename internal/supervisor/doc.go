// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package supervisor provides process supervision for Shelfwise using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running services in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The supervisor tree organizes services into two layers for failure isolation:

	RootSupervisor ("shelfwise")
	├── DataSupervisor ("data-layer")
	│   ├── RefreshLoopService (if refresh.auto_interval > 0)
	│   └── FreshnessProbeService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a crash in the background refresh loop never
takes down the HTTP server: serving from the already-published artifacts
keeps working while the data layer restarts.

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Graceful Shutdown:
  - Context cancellation propagates through the tree
  - Each service gets the configured timeout to stop cleanly

Structured Logging:
  - Supervisor events flow through sutureslog into the zerolog-backed
    slog handler
*/
package supervisor
