// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/validation"
)

// recommendationsRequest carries the validated parameters of a
// recommendation call. Count is clamped to the configured maximum
// before validation, so only nonsense values fail.
type recommendationsRequest struct {
	UserID string `validate:"required,objectid"`
	Count  int    `validate:"min=1"`
}

// datasetsRequest carries the validated parameters of a dataset page read.
type datasetsRequest struct {
	Dataset string `validate:"required,oneof=interactions customers products product_categories aggregated processed features"`
	Limit   int    `validate:"min=1"`
	Offset  int    `validate:"min=0"`
}

// validateRequest validates a struct and converts failures to the
// models.APIError format.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
