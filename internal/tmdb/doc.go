// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

/*
Package tmdb implements the client for the external movie/TV metadata
API (TMDB v3).

The base Client handles authentication, client-side rate limiting,
HTTP 429 retry with exponential backoff and JSON decoding. The
CircuitBreakerClient wraps it with the circuit breaker pattern so a
degraded upstream sheds load quickly instead of piling up timeouts.

Resilience:
  - Client-side limiter (golang.org/x/time/rate) stays under the
    upstream request budget before a 429 ever happens.
  - HTTP 429 responses retry with exponential backoff (1s, 2s, 4s, 8s,
    16s, max 5 attempts), honoring a Retry-After header when present.
  - Circuit breaker opens after a 60% failure rate over at least 10
    requests and probes again after 2 minutes.
*/
package tmdb
