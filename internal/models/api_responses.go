// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user_id": "5f9f1b9b0b9b9b9b9b9b9b9b", "products": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-26T12:00:00Z",
//	    "query_time_ms": 45,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Invalid count parameter",
//	    "details": {"field": "count"}
//	  },
//	  "metadata": {"timestamp": "2026-08-26T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Query/pipeline execution time in milliseconds (0 if cached)
//   - Cached: Whether response was served from cache (omitted if false)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Query execution failure
//   - SOURCE_UNAVAILABLE: Document store unreachable or circuit breaker open
//   - PIPELINE_ERROR: Refresh pipeline run failure
//   - SCHEMA_MISMATCH: Upstream schema drift detected during a run
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PageInfo contains offset-based pagination metadata for dataset reads.
// The published tables are regenerated wholesale by each pipeline run, so
// offset pagination over a stable snapshot is sufficient here.
//
// Fields:
//   - Limit: Maximum rows per page (from request)
//   - Offset: Rows skipped before this page (from request)
//   - Count: Rows in this page
//   - Total: Total rows in the table
type PageInfo struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Count  int   `json:"count"`
	Total  int64 `json:"total"`
}
