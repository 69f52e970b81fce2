// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package media defines the shared media item model consumed by the taste
// profile and recommendation packages.
//
// Two explicit payload shapes exist, matching the two fidelities the TMDB
// API exposes:
//
//   - Item: a shallow row from a paginated discover/listing response.
//     Carries genre IDs, original language and origin countries only.
//   - Details: the full per-item payload including credits (cast/crew)
//     and production countries, fetched one item at a time.
//
// The taste scorer runs a cheap pass over Item values and an expensive
// pass over Details values; the split exists so per-item detail fetches
// can be deferred until a pre-filter has narrowed the candidate set.
package media
