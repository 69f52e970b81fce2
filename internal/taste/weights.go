// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

// Action classifies a user interaction with a media item.
type Action string

// Known actions. The set is closed and versioned: unknown actions are
// silently ignored by the updater rather than rejected, since they only
// ever originate from this subsystem's own callers.
const (
	// ActionWatchlist - item added to the watchlist.
	ActionWatchlist Action = "watchlist"
	// ActionWatched - item marked watched.
	ActionWatched Action = "watched"
	// ActionCaughtUp - series marked caught-up.
	ActionCaughtUp Action = "caught-up"
	// ActionRatedHigh - synthetic signal for a rating of 8-10.
	ActionRatedHigh Action = "rated_high"
	// ActionRatedLow - synthetic signal for a rating of 1-4.
	ActionRatedLow Action = "rated_low"
	// ActionNotInterested - item explicitly hidden.
	ActionNotInterested Action = "not_interested"
	// ActionViewMediaPage - passive interest: detail page viewed.
	ActionViewMediaPage Action = "view_media_page"
	// ActionViewTrailer - active interest: trailer played.
	ActionViewTrailer Action = "view_trailer"
	// ActionRemove is the sentinel for "no action / reversal only".
	// It carries no weight and is never applied.
	ActionRemove Action = "remove"
)

// actionWeights maps each action to its base signal strength. Negative
// values are negative signals. These values are a compatibility contract
// with persisted profiles and must not be changed casually.
var actionWeights = map[Action]float64{
	ActionWatchlist:     1,
	ActionWatched:       2,
	ActionCaughtUp:      2,
	ActionRatedHigh:     3,
	ActionRatedLow:      -2,
	ActionNotInterested: -3,
	ActionViewMediaPage: 0.2,
	ActionViewTrailer:   0.5,
}

// Weight returns the base signal strength for the action and whether the
// action is a known, applicable one. ActionRemove and unknown actions
// report false.
func (a Action) Weight() (float64, bool) {
	w, ok := actionWeights[a]
	return w, ok
}

// Known reports whether the action carries a signal weight.
func (a Action) Known() bool {
	_, ok := actionWeights[a]
	return ok
}

// Attribute category weights: the relative importance of each attribute
// category when folding an interaction into the profile and when scoring
// candidates against it. Compatibility contract, same as actionWeights.
const (
	GenreWeight    = 1.5
	DirectorWeight = 1.2
	ActorWeight    = 1.0
	LanguageWeight = 1.0
	CountryWeight  = 0.8
	DecadeWeight   = 0.5
)

// Explicit preference weights. Much larger in magnitude than any implicit
// signal so a stated preference dominates accumulated behavior; the
// disliked-genre weight is negative enough to act as a hard filter once
// candidates with non-positive scores are dropped.
const (
	LikedGenreWeight        = 20.0
	DislikedGenreWeight     = -1000.0
	PreferredLanguageWeight = 15.0
)

// MaxScoredCast bounds how many billed cast members contribute to the
// profile and to candidate scores.
const MaxScoredCast = 5

// DefaultPersonViewWeight is the affinity bump applied when a user views
// a person's page.
const DefaultPersonViewWeight = 0.5
