// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/models"
)

// Datasets serves one page of a published table. The source mirrors
// (interactions, customers, products, product_categories) use typed
// rows; the derived tables use generic column maps because their
// column sets are decided at run time by the cleaner.
func (h *Handler) Datasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := datasetsRequest{
		Dataset: chi.URLParam(r, "dataset"),
		Limit:   getIntParam(r, "limit", h.cfg.API.DefaultPageSize),
		Offset:  getIntParam(r, "offset", 0),
	}
	if req.Limit > h.cfg.API.MaxPageSize {
		req.Limit = h.cfg.API.MaxPageSize
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx := r.Context()
	var (
		rows interface{}
		err  error
	)
	switch req.Dataset {
	case database.TableInteractions:
		rows, err = h.db.ListInteractions(ctx, req.Limit, req.Offset)
	case database.TableCustomers:
		rows, err = h.db.ListCustomers(ctx, req.Limit, req.Offset)
	case database.TableProducts:
		rows, err = h.db.ListProducts(ctx, req.Limit, req.Offset)
	case database.TableProductCategories:
		rows, err = h.db.ListProductCategories(ctx, req.Limit, req.Offset)
	default:
		rows, err = h.db.ListRows(ctx, req.Dataset, req.Limit, req.Offset)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Failed to read dataset", err)
		return
	}

	total, err := h.db.TableRowCount(ctx, req.Dataset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Failed to count dataset rows", err)
		return
	}

	page := models.DatasetPage{
		Dataset: req.Dataset,
		Rows:    rows,
		Pagination: models.PageInfo{
			Limit:  req.Limit,
			Offset: req.Offset,
			Count:  rowCount(rows),
			Total:  total,
		},
	}
	respondSuccess(w, page, time.Since(start), false)
}

// rowCount returns the length of any of the row slice shapes.
func rowCount(rows interface{}) int {
	switch v := rows.(type) {
	case []models.InteractionRow:
		return len(v)
	case []models.CustomerRow:
		return len(v)
	case []models.ProductRow:
		return len(v)
	case []models.ProductCategoryRow:
		return len(v)
	case []map[string]interface{}:
		return len(v)
	default:
		return 0
	}
}
