// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package config provides centralized configuration management for Shelfwise.

This package handles loading, validation, and credential decryption for all
application components. Configuration merges three layers with clear
precedence: built-in defaults, an optional YAML file, and SHELFWISE_*
environment variables (highest priority).

# Configuration Sources

The package reads configuration from:
  - Built-in defaults (every setting has one)
  - YAML file: config.yaml / config.yml in the working directory,
    /etc/shelfwise/, or the path named by SHELFWISE_CONFIG_PATH
  - Environment variables with the SHELFWISE_ prefix

# Configuration Structure

The package organizes configuration into logical groups:

  - ServerConfig: HTTP listener and timeouts
  - LoggingConfig: Log level and output format
  - DatabaseConfig: DuckDB path and performance tuning
  - SourceConfig: Remote document store connection and extraction bounds
  - RefreshConfig: Staleness threshold, run ceiling, artifact snapshots
  - RecommendConfig: Ranked-list sizing and response caching
  - APIConfig: Pagination, CORS, rate limiting
  - MetricsConfig: Prometheus endpoint toggle

# Environment Variables

Common variables by component:

Server (ServerConfig):
  - SHELFWISE_SERVER_HOST: Bind address (default: 0.0.0.0)
  - SHELFWISE_SERVER_PORT: Listen port (default: 8000)
  - SHELFWISE_SERVER_READ_TIMEOUT: Request read timeout (default: 15s)
  - SHELFWISE_SERVER_WRITE_TIMEOUT: Response write timeout (default: 0, disabled)
  - SHELFWISE_ENVIRONMENT: development or production

Source (SourceConfig):
  - SHELFWISE_SOURCE_URI: MongoDB URI (default: mongodb://localhost:27017)
  - SHELFWISE_SOURCE_DATABASE: Source database name (default: shelfwise)
  - SHELFWISE_SOURCE_FETCH_TIMEOUT: Per-collection fetch deadline (default: 30s)
  - SHELFWISE_SOURCE_MAX_DOCUMENTS: Retrieval ceiling per collection (default: 100000)

Refresh (RefreshConfig):
  - SHELFWISE_REFRESH_THRESHOLD: Staleness threshold (default: 1h)
  - SHELFWISE_REFRESH_RUN_TIMEOUT: Pipeline run ceiling (default: 5m)
  - SHELFWISE_REFRESH_AUTO_INTERVAL: Background refresh period (default: 0, disabled)
  - SHELFWISE_REFRESH_STAMP_ON_SERVE: Stamp freshness on unconditional serves (default: true)
  - SHELFWISE_REFRESH_ARTIFACTS_DIR: Artifacts root (default: data)

Database (DatabaseConfig):
  - SHELFWISE_DATABASE_PATH: Database file path (default: data/shelfwise.duckdb)
  - SHELFWISE_DATABASE_THREADS: Thread count (default: 0 = CPU count)
  - SHELFWISE_DATABASE_MAX_MEMORY: Memory limit (default: 2GB)

Recommendations (RecommendConfig):
  - SHELFWISE_RECOMMEND_DEFAULT_COUNT: Default ranked list size (default: 5)
  - SHELFWISE_RECOMMEND_MAX_COUNT: Upper clamp for ?count= (default: 50)
  - SHELFWISE_RECOMMEND_CACHE_TTL: Response cache TTL (default: 5m, 0 disables)

# Usage Example

Basic configuration loading:

	import "github.com/tomtom215/shelfwise/internal/config"

	// Load configuration from defaults, file, and environment
	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}

	// Access configuration values
	fmt.Printf("Starting server on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Source: %s/%s\n", config.MaskCredential(cfg.Source.URI), cfg.Source.Database)
	fmt.Printf("Database: %s\n", cfg.Database.Path)

Testing with custom configuration:

	// Override environment variables for testing
	t.Setenv("SHELFWISE_SERVER_PORT", "8080")
	t.Setenv("SHELFWISE_SOURCE_URI", "mongodb://test-mongo:27017")

	cfg, err := config.LoadWithKoanf()
	// Use cfg for testing

# Validation

The package performs comprehensive validation after merging:

  - Numeric ranges: SHELFWISE_SERVER_PORT (1-65535), batch sizes, page sizes
  - Duration ranges: fetch timeouts (1s-10m), refresh threshold (1s-30d)
  - URI format: SHELFWISE_SOURCE_URI must be a mongodb:// or mongodb+srv:// URI
  - Cross-field constraints: a non-zero write timeout must exceed the
    refresh run ceiling; default counts must not exceed their max clamps

# Credential Encryption

The source URI may be stored encrypted at rest. A value with the "enc:"
prefix is decrypted at load using AES-256-GCM with a key derived via
HKDF-SHA256 from SHELFWISE_SECRET_KEY. Plaintext values pass through
unchanged. Generate an encrypted value with CredentialEncryptor.Encrypt
and prepend the prefix.

# Docker Deployment

For Docker deployments, use environment variables or docker-compose.yml:

	services:
	  shelfwise:
	    image: ghcr.io/tomtom215/shelfwise:latest
	    environment:
	      SHELFWISE_SOURCE_URI: mongodb://mongo:27017
	      SHELFWISE_SOURCE_DATABASE: shelfwise
	      SHELFWISE_REFRESH_THRESHOLD: 1h
	    ports:
	      - "8000:8000"

# Thread Safety

The Config struct is immutable after LoadWithKoanf() returns, making it safe
for concurrent access from multiple goroutines without synchronization.

# Performance

Configuration loading is fast (<10ms) and only happens once at startup.
Values are parsed and validated during load, so runtime access is direct
field reads with zero overhead.
*/
package config
