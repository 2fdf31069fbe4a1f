// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"net/url"
)

// validateMongoURI validates that a connection string is a well-formed
// MongoDB URI. The driver performs the authoritative parse on connect; this
// catches obvious misconfiguration (wrong scheme, missing host) at load time.
func validateMongoURI(rawURI string) error {
	parsed, err := url.Parse(rawURI)
	if err != nil {
		return fmt.Errorf("failed to parse URI: %w", err)
	}

	if parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv" {
		return fmt.Errorf("scheme must be mongodb or mongodb+srv, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:27017, mongo.example.com)")
	}

	return nil
}
