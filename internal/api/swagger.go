// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	_ "embed"
	"net/http"
)

// openAPISpec is the hand-maintained API description served to the
// swagger UI. Keep it in sync when routes change.
//
//go:embed openapi.json
var openAPISpec []byte

func serveOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(openAPISpec)
}
