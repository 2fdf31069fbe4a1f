// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSource(); err != nil {
		return err
	}

	if err := c.validateRefresh(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SHELFWISE_SERVER_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.IdleTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}

	// A write timeout shorter than the run ceiling would cut forced-refresh
	// responses mid-run. 0 disables the write timeout.
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Refresh.RunTimeout {
		return fmt.Errorf("SHELFWISE_SERVER_WRITE_TIMEOUT (%v) must exceed SHELFWISE_REFRESH_RUN_TIMEOUT (%v) or be 0 to disable",
			c.Server.WriteTimeout, c.Refresh.RunTimeout)
	}
	return nil
}

// validateDatabase validates DuckDB configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("SHELFWISE_DATABASE_PATH is required")
	}
	if c.Database.Threads < 0 || c.Database.Threads > 256 {
		return fmt.Errorf("SHELFWISE_DATABASE_THREADS must be between 0 and 256 (0 = all cores)")
	}
	if c.Database.MaxMemory == "" {
		return fmt.Errorf("SHELFWISE_DATABASE_MAX_MEMORY is required (e.g., 2GB)")
	}
	return nil
}

// Source limit constants
const (
	minFetchTimeout = 1 * time.Second
	maxFetchTimeout = 10 * time.Minute
	maxSourceBatch  = 100000
)

// validateSource validates the document store configuration
func (c *Config) validateSource() error {
	if err := c.validateSourceURI(); err != nil {
		return err
	}
	if err := c.validateSourceNames(); err != nil {
		return err
	}
	return c.validateSourceLimits()
}

// validateSourceURI validates the source connection URI
func (c *Config) validateSourceURI() error {
	if c.Source.URI == "" {
		return fmt.Errorf("SHELFWISE_SOURCE_URI is required")
	}
	if err := validateMongoURI(c.Source.URI); err != nil {
		return fmt.Errorf("SHELFWISE_SOURCE_URI is invalid: %w", err)
	}
	return nil
}

// validateSourceNames validates the database and collection names
func (c *Config) validateSourceNames() error {
	if c.Source.Database == "" {
		return fmt.Errorf("SHELFWISE_SOURCE_DATABASE is required")
	}

	collections := map[string]string{
		"SHELFWISE_SOURCE_INTERACTIONS_COLLECTION": c.Source.InteractionsCollection,
		"SHELFWISE_SOURCE_CUSTOMERS_COLLECTION":    c.Source.CustomersCollection,
		"SHELFWISE_SOURCE_PRODUCTS_COLLECTION":     c.Source.ProductsCollection,
		"SHELFWISE_SOURCE_CATEGORIES_COLLECTION":   c.Source.CategoriesCollection,
	}
	for envVar, name := range collections {
		if name == "" {
			return fmt.Errorf("%s is required", envVar)
		}
	}
	return nil
}

// validateSourceLimits validates fetch timeouts and retrieval bounds
func (c *Config) validateSourceLimits() error {
	if c.Source.FetchTimeout < minFetchTimeout || c.Source.FetchTimeout > maxFetchTimeout {
		return fmt.Errorf("SHELFWISE_SOURCE_FETCH_TIMEOUT must be between %v and %v", minFetchTimeout, maxFetchTimeout)
	}
	if c.Source.ConnectTimeout < minFetchTimeout || c.Source.ConnectTimeout > maxFetchTimeout {
		return fmt.Errorf("SHELFWISE_SOURCE_CONNECT_TIMEOUT must be between %v and %v", minFetchTimeout, maxFetchTimeout)
	}
	if c.Source.MaxDocuments < 0 {
		return fmt.Errorf("SHELFWISE_SOURCE_MAX_DOCUMENTS must be non-negative (0 = unlimited)")
	}
	if c.Source.BatchSize < 1 || c.Source.BatchSize > maxSourceBatch {
		return fmt.Errorf("SHELFWISE_SOURCE_BATCH_SIZE must be between 1 and %d", maxSourceBatch)
	}
	return nil
}

// Refresh limit constants
const (
	minRefreshThreshold = 1 * time.Second
	maxRefreshThreshold = 30 * 24 * time.Hour
	minRunTimeout       = 1 * time.Second
	maxRunTimeout       = 1 * time.Hour
	minAutoInterval     = 10 * time.Second
)

// validateRefresh validates the staleness gate and run settings
func (c *Config) validateRefresh() error {
	if c.Refresh.Threshold < minRefreshThreshold || c.Refresh.Threshold > maxRefreshThreshold {
		return fmt.Errorf("SHELFWISE_REFRESH_THRESHOLD must be between %v and %v", minRefreshThreshold, maxRefreshThreshold)
	}
	if c.Refresh.RunTimeout < minRunTimeout || c.Refresh.RunTimeout > maxRunTimeout {
		return fmt.Errorf("SHELFWISE_REFRESH_RUN_TIMEOUT must be between %v and %v", minRunTimeout, maxRunTimeout)
	}
	if c.Refresh.AutoInterval != 0 && c.Refresh.AutoInterval < minAutoInterval {
		return fmt.Errorf("SHELFWISE_REFRESH_AUTO_INTERVAL must be 0 (disabled) or at least %v", minAutoInterval)
	}
	if c.Refresh.ArtifactsDir == "" {
		return fmt.Errorf("SHELFWISE_REFRESH_ARTIFACTS_DIR is required")
	}
	return nil
}

// validateRecommend validates recommendation serving settings
func (c *Config) validateRecommend() error {
	if c.Recommend.MaxCount < 1 || c.Recommend.MaxCount > 1000 {
		return fmt.Errorf("SHELFWISE_RECOMMEND_MAX_COUNT must be between 1 and 1000")
	}
	if c.Recommend.DefaultCount < 1 || c.Recommend.DefaultCount > c.Recommend.MaxCount {
		return fmt.Errorf("SHELFWISE_RECOMMEND_DEFAULT_COUNT must be between 1 and SHELFWISE_RECOMMEND_MAX_COUNT (%d)", c.Recommend.MaxCount)
	}
	if c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("SHELFWISE_RECOMMEND_CACHE_TTL must be non-negative (0 disables caching)")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateAPI validates pagination and rate limiting bounds
func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 || c.API.MaxPageSize > 10000 {
		return fmt.Errorf("SHELFWISE_API_MAX_PAGE_SIZE must be between 1 and 10000")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("SHELFWISE_API_DEFAULT_PAGE_SIZE must be between 1 and SHELFWISE_API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting configuration bounds.
// Ensures rate limit values are within sensible ranges to prevent
// misconfiguration that could lead to DoS or ineffective protection.
func (c *Config) validateRateLimits() error {
	if c.API.RateLimitDisabled {
		return nil
	}

	if c.API.RateLimitReqs < minRateLimitRequests || c.API.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("SHELFWISE_API_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.API.RateLimitWindow < minRateLimitWindow || c.API.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("SHELFWISE_API_RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the accepted logging levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("SHELFWISE_LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal")
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("SHELFWISE_LOG_FORMAT must be json or console")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
// Production mode is determined by the SHELFWISE_ENVIRONMENT environment variable.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}
