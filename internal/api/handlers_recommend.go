// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfwise/internal/cache"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/refresh"
)

// recommendationsPayload is the Data field of a recommendation response.
type recommendationsPayload struct {
	UserID string                 `json:"user_id"`
	Policy string                 `json:"policy"`
	Count  int                    `json:"count"`
	Items  []recommend.ScoredItem `json:"items"`
}

// Recommendations serves from the current artifacts without refreshing.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, refresh.PolicyServe)
}

// RecommendationsFresh refreshes first when the artifacts are stale.
func (h *Handler) RecommendationsFresh(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, refresh.PolicyServeFresh)
}

// RecommendationsRefresh always refreshes before serving.
func (h *Handler) RecommendationsRefresh(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, refresh.PolicyServeRefresh)
}

func (h *Handler) serveRecommendations(w http.ResponseWriter, r *http.Request, policy string) {
	start := time.Now()

	req := recommendationsRequest{
		UserID: chi.URLParam(r, "userID"),
		Count:  getIntParam(r, "count", h.cfg.Recommend.DefaultCount),
	}
	if req.Count > h.cfg.Recommend.MaxCount {
		req.Count = h.cfg.Recommend.MaxCount
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr)
		return
	}

	// Only the unconditional path is cacheable: the fresh and refresh
	// policies promise data at least as new as the request.
	var cacheKey string
	if policy == refresh.PolicyServe {
		cacheKey = cache.GenerateKey("recommendations", req)
		if data, ok := h.cache.Get(cacheKey); ok {
			respondSuccess(w, data, 0, true)
			return
		}
	}

	var (
		items []recommend.ScoredItem
		err   error
	)
	switch policy {
	case refresh.PolicyServeFresh:
		items, err = h.manager.ServeFresh(r.Context(), req.UserID, req.Count)
	case refresh.PolicyServeRefresh:
		items, err = h.manager.ServeAfterRefresh(r.Context(), req.UserID, req.Count)
	default:
		items, err = h.manager.Serve(r.Context(), req.UserID, req.Count)
	}
	if err != nil {
		status, code, message := mapPipelineError(err)
		respondError(w, status, code, message, err)
		return
	}

	// An unknown user is an empty list, not an error.
	if items == nil {
		items = []recommend.ScoredItem{}
	}

	payload := recommendationsPayload{
		UserID: req.UserID,
		Policy: policy,
		Count:  len(items),
		Items:  items,
	}
	if cacheKey != "" {
		h.cache.Set(cacheKey, payload)
	}
	respondSuccess(w, payload, time.Since(start), false)
}
