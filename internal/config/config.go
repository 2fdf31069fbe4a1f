// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for every setting
//  2. Config File: Optional YAML file (config.yaml, or SHELFWISE_CONFIG_PATH)
//  3. Environment Variables: SHELFWISE_* variables override everything
//
// Configuration Categories:
//
//  1. Data Plane:
//     - Source: remote document store holding the four raw extracts
//     - Database: local DuckDB analytics database (staging + published tables)
//     - Refresh: staleness threshold, run ceiling, artifact snapshots
//
//  2. Serving:
//     - Server: HTTP listener and timeouts
//     - Recommend: ranked-list sizing and response cache TTL
//     - API: pagination, CORS, rate limiting
//
//  3. Observability:
//     - Logging: level and output format
//     - Metrics: Prometheus endpoint toggle
//
// Example - Load configuration:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Source.URI, cfg.Database.Path, etc. are now populated
//
// Validation:
// LoadWithKoanf validates the merged configuration and returns an error if
// values are malformed (invalid source URI, out-of-range port) or if
// cross-field constraints are violated (write timeout shorter than the
// refresh run ceiling).
//
// Thread Safety:
// Config is immutable after LoadWithKoanf and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Source    SourceConfig    `koanf:"source"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig contains HTTP server settings.
//
// Environment Variables:
//   - SHELFWISE_SERVER_PORT: Listen port (default: 8000)
//   - SHELFWISE_SERVER_HOST: Bind address (default: 0.0.0.0)
//   - SHELFWISE_SERVER_READ_TIMEOUT: Request read timeout (default: 15s)
//   - SHELFWISE_SERVER_WRITE_TIMEOUT: Response write timeout (default: 0 = disabled)
//   - SHELFWISE_SERVER_IDLE_TIMEOUT: Keep-alive idle timeout (default: 60s)
//   - SHELFWISE_SERVER_SHUTDOWN_TIMEOUT: Graceful drain window (default: 15s)
//   - SHELFWISE_ENVIRONMENT: Deployment environment (default: development)
//
// The write timeout defaults to 0 because forced-refresh requests block for
// the duration of a pipeline run; handlers are bounded by refresh.run_timeout
// instead. A non-zero write timeout must exceed the run ceiling.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"` // 0 disables; must exceed refresh.run_timeout otherwise
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// LoggingConfig contains logging settings.
//
// Environment Variables:
//   - SHELFWISE_LOG_LEVEL: trace, debug, info, warn, error, fatal (default: info)
//   - SHELFWISE_LOG_FORMAT: json or console (default: json)
//   - SHELFWISE_LOG_CALLER: Include caller file:line in log events (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig contains DuckDB settings for the local analytics database.
//
// Environment Variables:
//   - SHELFWISE_DATABASE_PATH: Database file path (default: data/shelfwise.duckdb)
//   - SHELFWISE_DATABASE_MAX_MEMORY: DuckDB memory limit (default: 2GB)
//   - SHELFWISE_DATABASE_THREADS: DuckDB worker threads (default: 4)
//   - SHELFWISE_DATABASE_PRESERVE_INSERTION_ORDER: Keep insert order in results (default: true)
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// SourceConfig contains the remote document store settings. The four
// collections hold the raw extracts the pipeline synchronizes locally.
//
// Environment Variables:
//   - SHELFWISE_SOURCE_URI: MongoDB connection URI (default: mongodb://localhost:27017)
//   - SHELFWISE_SOURCE_DATABASE: Source database name (default: shelfwise)
//   - SHELFWISE_SOURCE_INTERACTIONS_COLLECTION: (default: interactions)
//   - SHELFWISE_SOURCE_CUSTOMERS_COLLECTION: (default: customers)
//   - SHELFWISE_SOURCE_PRODUCTS_COLLECTION: (default: products)
//   - SHELFWISE_SOURCE_CATEGORIES_COLLECTION: (default: product_categories)
//   - SHELFWISE_SOURCE_CONNECT_TIMEOUT: Connect/ping deadline (default: 10s)
//   - SHELFWISE_SOURCE_FETCH_TIMEOUT: Per-collection fetch deadline (default: 30s)
//   - SHELFWISE_SOURCE_MAX_DOCUMENTS: Per-collection retrieval ceiling, 0 = unlimited (default: 100000)
//   - SHELFWISE_SOURCE_BATCH_SIZE: Staging insert batch size (default: 1000)
//
// The URI may be stored encrypted at rest: a value with the "enc:" prefix is
// decrypted at load using AES-256-GCM with a key derived from
// SHELFWISE_SECRET_KEY. Plaintext values pass through unchanged.
type SourceConfig struct {
	URI                    string        `koanf:"uri"`
	Database               string        `koanf:"database"`
	InteractionsCollection string        `koanf:"interactions_collection"`
	CustomersCollection    string        `koanf:"customers_collection"`
	ProductsCollection     string        `koanf:"products_collection"`
	CategoriesCollection   string        `koanf:"categories_collection"`
	ConnectTimeout         time.Duration `koanf:"connect_timeout"`
	FetchTimeout           time.Duration `koanf:"fetch_timeout"`
	MaxDocuments           int64         `koanf:"max_documents"` // safety ceiling, not a working limit
	BatchSize              int           `koanf:"batch_size"`
}

// RefreshConfig contains the staleness gate and pipeline run settings.
//
// Environment Variables:
//   - SHELFWISE_REFRESH_THRESHOLD: Artifact age beyond which data is stale (default: 1h)
//   - SHELFWISE_REFRESH_RUN_TIMEOUT: Ceiling on a full pipeline run (default: 5m)
//   - SHELFWISE_REFRESH_AUTO_INTERVAL: Background refresh period, 0 = disabled (default: 0)
//   - SHELFWISE_REFRESH_STAMP_ON_SERVE: Stamp freshness on unconditional serves (default: true)
//   - SHELFWISE_REFRESH_EXPORT_SNAPSHOTS: Write CSV snapshots after each run (default: true)
//   - SHELFWISE_REFRESH_ARTIFACTS_DIR: Root for snapshots and the freshness record (default: data)
//
// StampOnServe preserves the historical behavior where serving recommendations
// without refreshing still rewrites the freshness record, which can mask
// staleness from later conditional refreshes. Set it to false to make the
// record reflect actual pipeline runs only.
type RefreshConfig struct {
	Threshold       time.Duration `koanf:"threshold"`
	RunTimeout      time.Duration `koanf:"run_timeout"`
	AutoInterval    time.Duration `koanf:"auto_interval"`
	StampOnServe    bool          `koanf:"stamp_on_serve"`
	ExportSnapshots bool          `koanf:"export_snapshots"`
	ArtifactsDir    string        `koanf:"artifacts_dir"`
}

// RecommendConfig contains recommendation serving settings.
//
// Environment Variables:
//   - SHELFWISE_RECOMMEND_DEFAULT_COUNT: Ranked list size when ?count= is absent (default: 5)
//   - SHELFWISE_RECOMMEND_MAX_COUNT: Upper clamp for ?count= (default: 50)
//   - SHELFWISE_RECOMMEND_CACHE_TTL: Response cache TTL, 0 disables caching (default: 5m)
type RecommendConfig struct {
	DefaultCount int           `koanf:"default_count"`
	MaxCount     int           `koanf:"max_count"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// APIConfig contains API behavior settings.
//
// Environment Variables:
//   - SHELFWISE_API_DEFAULT_PAGE_SIZE: Dataset page size when ?limit= is absent (default: 20)
//   - SHELFWISE_API_MAX_PAGE_SIZE: Upper clamp for ?limit= (default: 100)
//   - SHELFWISE_API_RATE_LIMIT_REQUESTS: Requests allowed per window per client (default: 100)
//   - SHELFWISE_API_RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - SHELFWISE_API_DISABLE_RATE_LIMIT: Disable rate limiting entirely (default: false)
//   - SHELFWISE_API_CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - SHELFWISE_API_SWAGGER_ENABLED: Serve the Swagger UI at /swagger/ (default: true)
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	SwaggerEnabled    bool          `koanf:"swagger_enabled"`
}

// MetricsConfig contains Prometheus settings.
//
// Environment Variables:
//   - SHELFWISE_METRICS_ENABLED: Expose /metrics (default: true)
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}
