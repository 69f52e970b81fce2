// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package taste implements the incrementally-updated taste profile: a
// per-user weighted preference model over genres, people, languages,
// countries and decades, derived from observed interactions and explicit
// user-stated preferences.
//
// # Model
//
// A Profile holds signed affinity scores per attribute value. Every
// qualifying interaction (adding to a list, watching, rating, hiding,
// viewing a page or trailer) contributes additively to the scores of the
// item's attributes, scaled by the action's signal strength and the
// attribute category's weight. Explicit preferences (liked/disliked
// genres, preferred languages) are folded into the same score maps with
// weights large enough to dominate the implicit signal; a disliked genre
// in particular carries a weight negative enough to act as a hard filter
// downstream.
//
// # Consistency
//
// Profile mutations are whole-document read-modify-write operations,
// serialized per user by the Manager. Corrupt or absent persisted state
// is never an error: loading substitutes the zero-value profile. The one
// failure that must surface to callers is a failed explicit-preference
// save, because the user must not believe preferences were saved when
// they were not; the in-memory cache is rolled back before the error is
// returned.
//
// # Rebuilds
//
// The bulk builder replays a user's full library (statuses plus ratings)
// against a cleared profile, fetching item details with bounded
// concurrency and tolerating individual fetch failures. Explicit
// preferences are applied strictly after all per-item scoring so the
// large explicit bonuses are applied exactly once.
package taste
