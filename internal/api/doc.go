// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package api implements the HTTP surface of the platform.

Endpoints are grouped under /api/v1:

  - /recommendations/user/{userID}           serve from current artifacts
  - /recommendations/user/{userID}/fresh     refresh first if stale, then serve
  - /recommendations/user/{userID}/refresh   always refresh, then serve
  - /refresh (POST)                          trigger a pipeline run
  - /refresh/status                          run state and freshness
  - /datasets/{name}                         paginated published tables
  - /health, /health/live, /health/ready     health probes

Observability endpoints (/metrics, /swagger) sit at the root. Every
response uses the models.APIResponse envelope. Unconditional serves are
cached; the refresh orchestrator invalidates the cache after each
successful run through Handler.ClearCache.
*/
package api
