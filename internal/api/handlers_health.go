// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

// Health reports the overall service health. The document store being
// down degrades the status but does not fail the endpoint: serving
// from existing artifacts keeps working without it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := models.HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if err := h.db.Ping(ctx); err == nil {
		status.DatabaseConnected = true
	} else {
		status.Status = "unhealthy"
	}

	if h.source != nil {
		if err := h.source.Ping(ctx); err == nil {
			status.StoreConnected = true
		} else if status.Status == "healthy" {
			status.Status = "degraded"
		}
	}

	if ts := h.manager.Status().LastRefresh; ts != nil {
		status.LastRefreshTime = ts
	}

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, &models.APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, 0, false)
}

// HealthReady is the readiness probe: ready once the analytics
// database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY",
			"Analytics database is not ready", err)
		return
	}
	respondSuccess(w, map[string]string{"status": "ready"}, 0, false)
}
