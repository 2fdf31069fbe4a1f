// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"
)

// TriggerRefresh runs the full pipeline and returns its run stats.
// A request arriving while a run is in flight collapses into that run
// and receives its result.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.manager.Refresh(r.Context())
	if err != nil {
		status, code, message := mapPipelineError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondSuccess(w, stats, time.Since(start), false)
}

// RefreshStatus reports the orchestrator state, freshness of the
// published artifacts, and the last completed run.
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.manager.Status(), 0, false)
}
