// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package models defines shared data structures for the Shelfwise application.

This package contains the API response envelope and the data transfer objects
exchanged between the database layer and the HTTP handlers. It serves as the
single source of truth for externally visible data shapes.

Key Components:

  - APIResponse: Standardized API response wrapper
  - APIError: Structured error details with machine-readable codes
  - Metadata: Response metadata (timestamp, query time, cache flag)
  - PageInfo / DatasetPage: Offset pagination for published dataset reads
  - InteractionRow, CustomerRow, ProductRow, ProductCategoryRow: Published
    table rows; nullable columns are pointers so SQL NULL survives as JSON null
  - HealthStatus: Health check response

Usage Example:

	import "github.com/tomtom215/shelfwise/internal/models"

	respondJSON(w, http.StatusOK, &models.APIResponse{
	    Status: "success",
	    Data:   page,
	    Metadata: models.Metadata{
	        Timestamp:   time.Now(),
	        QueryTimeMS: elapsed.Milliseconds(),
	    },
	})

All models use JSON struct tags with snake_case field names matching the
published table column names.
*/
package models
