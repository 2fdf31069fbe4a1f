// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package main is the entry point for the Shelfwise server application.

Shelfwise serves product recommendations from locally published datasets
that an ETL pipeline rebuilds out of an upstream MongoDB document store.
Every serve path is gated on dataset freshness: consumers choose between
serving whatever is published, refreshing first, or refreshing only when
the data has gone stale.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("shelfwise")
	├── DataSupervisor ("data-layer")
	│   ├── Refresh Loop (optional, SHELFWISE_REFRESH_AUTO_INTERVAL > 0)
	│   └── Freshness Probe (dataset-age gauge)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API, Swagger, Prometheus metrics)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with configurable level and format
 3. Database: DuckDB analytics store holding the published datasets
 4. Source store: MongoDB client wrapped in a circuit breaker
 5. Pipeline: extract-join-project-clean with atomic staging publish
 6. Refresh manager: staleness gate, run collapsing, freshness log
 7. HTTP surface: chi router, handlers, response cache
 8. Supervisor tree: supervised services and graceful shutdown

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
  - Environment variables with the SHELFWISE_ prefix
  - Config file (config.yaml)
  - Built-in defaults

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete (shutdown timeout)
  - Stops the refresh loop and freshness probe
  - Closes the database and source store connections

# Example Usage

Development against a local MongoDB:

	export SHELFWISE_SOURCE_URI=mongodb://localhost:27017
	export SHELFWISE_SOURCE_DATABASE=shop
	export SHELFWISE_LOGGING_LEVEL=debug
	./shelfwise

Production with a background refresh every hour:

	export SHELFWISE_SOURCE_URI=mongodb://mongo:27017
	export SHELFWISE_SOURCE_DATABASE=shop
	export SHELFWISE_REFRESH_AUTO_INTERVAL=1h
	export SHELFWISE_SERVER_ENVIRONMENT=production
	./shelfwise

Docker:

	docker run -d \
	  -e SHELFWISE_SOURCE_URI=mongodb://mongo:27017 \
	  -e SHELFWISE_SOURCE_DATABASE=shop \
	  -p 8000:8000 \
	  ghcr.io/tomtom215/shelfwise
*/
package main
