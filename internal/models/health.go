// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import (
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status            string     `json:"status"`
	Version           string     `json:"version"`
	DatabaseConnected bool       `json:"database_connected"`
	StoreConnected    bool       `json:"store_connected"`
	LastRefreshTime   *time.Time `json:"last_refresh_time,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}
