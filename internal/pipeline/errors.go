// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSourceUnavailable marks a run that failed because the document
// store could not be reached (driver error or open circuit breaker).
// Runs are not retried automatically; the error surfaces to the caller
// of the orchestrator.
var ErrSourceUnavailable = errors.New("source store unavailable")

// ErrSchemaMismatch matches any SchemaMismatchError via errors.Is.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaMismatchError reports columns a stage expected in its input but
// did not find. It is fatal for the run and leaves the freshness record
// untouched.
type SchemaMismatchError struct {
	Stage   string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s stage: input missing columns: %s", e.Stage, strings.Join(e.Missing, ", "))
}

// Is reports whether target is the ErrSchemaMismatch sentinel.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// sourceUnavailable wraps a store fetch failure so callers can branch on
// ErrSourceUnavailable while keeping the driver error in the chain.
func sourceUnavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}

// ErrorType classifies a run error for metrics labels.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "database"
	}
}
