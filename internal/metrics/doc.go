// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

/*
Package metrics provides Prometheus metrics collection and export.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - http_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status
  - http_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - http_requests_in_flight: Active requests (gauge)

Recommendation Metrics:
  - recommendation_requests_total: Recommendation pages served (counter)
    Labels: media_type
  - recommendation_duration_seconds: End-to-end assembly latency (histogram)
    Labels: media_type
  - recommendation_discover_errors_total: Failed discovery page fetches (counter)
    Labels: media_type

Metadata API Metrics:
  - tmdb_requests_total: Upstream metadata API calls (counter)
    Labels: operation, status
  - tmdb_request_duration_seconds: Upstream call latency (histogram)
    Labels: operation
  - tmdb_retries_total: 429-triggered retries (counter)
  - circuit_breaker_state: Breaker state (gauge)
    Labels: name
    Values: 0=closed, 1=open, 2=half-open

Profile Metrics:
  - profile_rebuilds_total: Bulk profile rebuilds (counter)
    Labels: status (success, error)
  - profile_rebuild_duration_seconds: Rebuild duration (histogram)
  - profile_interactions_total: Interaction signals folded into profiles (counter)
    Labels: action
*/
package metrics
