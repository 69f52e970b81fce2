// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package library tracks each user's list membership: which items sit on
// the watchlist, are watched or caught-up, or were hidden, plus manual
// ordering and personal ratings.
//
// The whole per-user list is stored as one document and mutated
// read-modify-write under a per-user lock. Every status change and every
// rating threshold crossing feeds the taste profile as an interaction
// transition, so the profile tracks the list without a separate event
// stream.
package library
