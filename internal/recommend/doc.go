// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package recommend ranks externally-fetched candidate media items
// against a user's taste profile and explicit preferences.
//
// # Two-pass scoring
//
// The discovery API returns shallow rows (genre IDs, language, origin
// countries) while full scoring needs credits, which cost one network
// call per item. Scoring therefore runs as a funnel:
//
//   - Pass 1 scores every deduplicated, unseen candidate from its
//     list-level fields, drops non-positive scores and keeps only the
//     most promising slice (2.5x the requested page size).
//   - Pass 2 fetches full details for the promising candidates
//     concurrently, rescores with director and cast contributions, and
//     returns the top page.
//
// # Failure semantics
//
// Any single discovery-page or detail fetch failure degrades the
// candidate pool silently rather than failing the request. A profile
// with no signal at all short-circuits to an empty result before any
// network call is made.
package recommend
