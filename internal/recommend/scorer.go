// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package recommend

import (
	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/taste"
)

// Boost multipliers for explicit preferences. Unlike the additive profile
// weights these are multiplicative, so a candidate matching several stated
// preferences compounds rather than merely accumulates.
const (
	// LikedGenreBoost multiplies the score once per matching liked genre.
	LikedGenreBoost = 1.5
	// PreferredLanguageBoost multiplies the score when the original
	// language is a stated preference.
	PreferredLanguageBoost = 1.2
)

// Scorer ranks candidates against a taste profile and explicit
// preferences. The preference membership sets are computed once at
// construction, so one Scorer serves an entire request's candidate pool.
//
// Missing profile entries contribute zero; a Scorer never fails.
type Scorer struct {
	profile        *taste.Profile
	likedGenres    map[int]struct{}
	preferredLangs map[string]struct{}
}

// NewScorer builds a Scorer for one request. Either argument may be
// nil-equivalent empty; prefs itself may be nil.
func NewScorer(profile *taste.Profile, prefs *taste.ExplicitPreferences) *Scorer {
	if profile == nil {
		profile = taste.NewProfile()
	}
	if prefs == nil {
		prefs = taste.NewExplicitPreferences()
	}
	return &Scorer{
		profile:        profile,
		likedGenres:    prefs.LikedGenreSet(),
		preferredLangs: prefs.LanguageSet(),
	}
}

// ScoreShallow scores a candidate from its list-level fields only:
// genres, original language and origin countries. Cast and crew are not
// available at this stage.
func (s *Scorer) ScoreShallow(item *media.Item) float64 {
	score := 0.0
	multiplier := 1.0

	for _, id := range item.GenreIDs {
		score += s.profile.Genres[id] * taste.GenreWeight
		if _, liked := s.likedGenres[id]; liked {
			multiplier *= LikedGenreBoost
		}
	}
	if item.OriginalLanguage != "" {
		score += s.profile.Languages[item.OriginalLanguage] * taste.LanguageWeight
		if _, preferred := s.preferredLangs[item.OriginalLanguage]; preferred {
			multiplier *= PreferredLanguageBoost
		}
	}
	for _, code := range item.OriginCountry {
		score += s.profile.Countries[code] * taste.CountryWeight
	}
	return score * multiplier
}

// ScoreDetailed scores a candidate from its full detail payload. Same
// structure as ScoreShallow, plus the director and the first
// taste.MaxScoredCast billed cast members.
func (s *Scorer) ScoreDetailed(d *media.Details) float64 {
	score := 0.0
	multiplier := 1.0

	for _, genre := range d.Genres {
		score += s.profile.Genres[genre.ID] * taste.GenreWeight
		if _, liked := s.likedGenres[genre.ID]; liked {
			multiplier *= LikedGenreBoost
		}
	}
	if d.OriginalLanguage != "" {
		score += s.profile.Languages[d.OriginalLanguage] * taste.LanguageWeight
		if _, preferred := s.preferredLangs[d.OriginalLanguage]; preferred {
			multiplier *= PreferredLanguageBoost
		}
	}
	for _, code := range d.CountryCodes() {
		score += s.profile.Countries[code] * taste.CountryWeight
	}
	if director := d.Director(); director != nil {
		score += s.profile.Directors[director.ID] * taste.DirectorWeight
	}
	for _, actor := range d.TopCast(taste.MaxScoredCast) {
		score += s.profile.Actors[actor.ID] * taste.ActorWeight
	}
	return score * multiplier
}
