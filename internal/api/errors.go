// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/shelfwise/internal/pipeline"
)

// mapPipelineError translates a refresh or scoring failure to an HTTP
// status, error code, and client-safe message. The unreachable source
// store is the only 503; everything else inside a run is a 500.
func mapPipelineError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, pipeline.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE",
			"Document store is unreachable; data refresh is temporarily unavailable"
	case errors.Is(err, pipeline.ErrSchemaMismatch):
		return http.StatusInternalServerError, "SCHEMA_MISMATCH",
			"Upstream schema changed; data refresh failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, "PIPELINE_TIMEOUT",
			"Data refresh exceeded its time budget"
	case errors.Is(err, context.Canceled):
		return http.StatusInternalServerError, "PIPELINE_CANCELED",
			"Data refresh was canceled"
	default:
		return http.StatusInternalServerError, "PIPELINE_ERROR",
			"Data refresh failed"
	}
}
