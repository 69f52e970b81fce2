// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

/*
Package api provides the HTTP surface of the service.

Routing is chi v5 with a small middleware chain: request ID, request
logging, Prometheus instrumentation, CORS and per-IP rate limiting.
All endpoints respond with a standardized envelope:

	{"success": true, "data": {...}}
	{"success": false, "error": {"code": "BAD_REQUEST", "message": "..."}}

Endpoints live under /api/v1; /healthz and /metrics sit at the root.
*/
package api
