// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shelfwise/config.yaml",
	"/etc/shelfwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "SHELFWISE_CONFIG_PATH"

// SecretKeyEnvVar names the environment variable holding the credential
// encryption secret. It is deliberately absent from envTransformFunc's map so
// the secret never enters the koanf tree.
const SecretKeyEnvVar = "SHELFWISE_SECRET_KEY"

// encryptedValuePrefix marks a config value as AES-256-GCM encrypted.
const encryptedValuePrefix = "enc:"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // forced-refresh responses are bounded by refresh.run_timeout
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:                   "data/shelfwise.duckdb",
			MaxMemory:              "2GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
		},
		Source: SourceConfig{
			URI:                    "mongodb://localhost:27017",
			Database:               "shelfwise",
			InteractionsCollection: "interactions",
			CustomersCollection:    "customers",
			ProductsCollection:     "products",
			CategoriesCollection:   "product_categories",
			ConnectTimeout:         10 * time.Second,
			FetchTimeout:           30 * time.Second,
			MaxDocuments:           100000,
			BatchSize:              1000,
		},
		Refresh: RefreshConfig{
			Threshold:       1 * time.Hour,
			RunTimeout:      5 * time.Minute,
			AutoInterval:    0, // disabled; refreshes are request-driven by default
			StampOnServe:    true,
			ExportSnapshots: true,
			ArtifactsDir:    "data",
		},
		Recommend: RecommendConfig{
			DefaultCount: 5,
			MaxCount:     50,
			CacheTTL:     5 * time.Minute,
		},
		API: APIConfig{
			DefaultPageSize:   20,
			MaxPageSize:       100,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			SwaggerEnabled:    true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// After merging, encrypted source credentials are decrypted and the result
// is validated. Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// SHELFWISE_SOURCE_URI -> source.uri
	// SHELFWISE_REFRESH_THRESHOLD -> refresh.threshold
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Decrypt encrypted source credentials before validation so the
	// validators see the effective values.
	if err := decryptSourceCredentials(cfg); err != nil {
		return nil, fmt.Errorf("failed to decrypt source credentials: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// decryptSourceCredentials replaces "enc:"-prefixed source values with their
// decrypted form. Plaintext values pass through unchanged. Decryption requires
// SHELFWISE_SECRET_KEY; a missing key with an encrypted value present is an
// error rather than a silent pass-through.
func decryptSourceCredentials(cfg *Config) error {
	if !strings.HasPrefix(cfg.Source.URI, encryptedValuePrefix) {
		return nil
	}

	secretKey := os.Getenv(SecretKeyEnvVar)
	if secretKey == "" {
		return fmt.Errorf("%s is required to decrypt source.uri", SecretKeyEnvVar)
	}

	encryptor, err := NewCredentialEncryptor(secretKey)
	if err != nil {
		return fmt.Errorf("failed to create credential encryptor: %w", err)
	}

	plaintext, err := encryptor.Decrypt(strings.TrimPrefix(cfg.Source.URI, encryptedValuePrefix))
	if err != nil {
		return fmt.Errorf("failed to decrypt source.uri: %w", err)
	}

	cfg.Source.URI = plaintext
	return nil
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Every recognized variable carries the SHELFWISE_ prefix; the mapping is
// explicit so unrelated environment variables never pollute the config.
//
// Examples:
//   - SHELFWISE_SOURCE_URI -> source.uri
//   - SHELFWISE_REFRESH_STAMP_ON_SERVE -> refresh.stamp_on_serve
//   - SHELFWISE_DATABASE_PATH -> database.path
//   - SHELFWISE_SERVER_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"shelfwise_server_port":             "server.port",
		"shelfwise_server_host":             "server.host",
		"shelfwise_server_read_timeout":     "server.read_timeout",
		"shelfwise_server_write_timeout":    "server.write_timeout",
		"shelfwise_server_idle_timeout":     "server.idle_timeout",
		"shelfwise_server_shutdown_timeout": "server.shutdown_timeout",
		"shelfwise_environment":             "server.environment",

		// Logging mappings
		"shelfwise_log_level":  "logging.level",
		"shelfwise_log_format": "logging.format",
		"shelfwise_log_caller": "logging.caller",

		// Database mappings
		"shelfwise_database_path":                     "database.path",
		"shelfwise_database_max_memory":               "database.max_memory",
		"shelfwise_database_threads":                  "database.threads",
		"shelfwise_database_preserve_insertion_order": "database.preserve_insertion_order",

		// Source mappings
		"shelfwise_source_uri":                     "source.uri",
		"shelfwise_source_database":                "source.database",
		"shelfwise_source_interactions_collection": "source.interactions_collection",
		"shelfwise_source_customers_collection":    "source.customers_collection",
		"shelfwise_source_products_collection":     "source.products_collection",
		"shelfwise_source_categories_collection":   "source.categories_collection",
		"shelfwise_source_connect_timeout":         "source.connect_timeout",
		"shelfwise_source_fetch_timeout":           "source.fetch_timeout",
		"shelfwise_source_max_documents":           "source.max_documents",
		"shelfwise_source_batch_size":              "source.batch_size",

		// Refresh mappings
		"shelfwise_refresh_threshold":        "refresh.threshold",
		"shelfwise_refresh_run_timeout":      "refresh.run_timeout",
		"shelfwise_refresh_auto_interval":    "refresh.auto_interval",
		"shelfwise_refresh_stamp_on_serve":   "refresh.stamp_on_serve",
		"shelfwise_refresh_export_snapshots": "refresh.export_snapshots",
		"shelfwise_refresh_artifacts_dir":    "refresh.artifacts_dir",

		// Recommend mappings
		"shelfwise_recommend_default_count": "recommend.default_count",
		"shelfwise_recommend_max_count":     "recommend.max_count",
		"shelfwise_recommend_cache_ttl":     "recommend.cache_ttl",

		// API mappings
		"shelfwise_api_default_page_size":   "api.default_page_size",
		"shelfwise_api_max_page_size":       "api.max_page_size",
		"shelfwise_api_rate_limit_requests": "api.rate_limit_reqs",
		"shelfwise_api_rate_limit_window":   "api.rate_limit_window",
		"shelfwise_api_disable_rate_limit":  "api.rate_limit_disabled",
		"shelfwise_api_cors_origins":        "api.cors_origins",
		"shelfwise_api_swagger_enabled":     "api.swagger_enabled",

		// Metrics mappings
		"shelfwise_metrics_enabled": "metrics.enabled",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
