// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

import (
	"errors"
	"fmt"
	"slices"
)

// ErrGenreConflict is returned when a genre appears in both the liked and
// disliked sets of a preference document.
var ErrGenreConflict = errors.New("genre marked both liked and disliked")

// GenrePreferences holds explicitly liked and disliked genre IDs.
// The two sets must be disjoint; Validate enforces this at the mutation
// boundary since the data model itself cannot.
type GenrePreferences struct {
	Liked    []int `json:"liked"`
	Disliked []int `json:"disliked"`
}

// ExplicitPreferences is a user's directly stated preferences: liked and
// disliked genres plus preferred original languages. Stored remotely as a
// whole document, cached in memory by the Manager for the session.
type ExplicitPreferences struct {
	Genres    GenrePreferences `json:"genres"`
	Languages []string         `json:"languages"`
}

// NewExplicitPreferences returns an empty preference document.
func NewExplicitPreferences() *ExplicitPreferences {
	return &ExplicitPreferences{
		Genres:    GenrePreferences{Liked: []int{}, Disliked: []int{}},
		Languages: []string{},
	}
}

// Validate rejects preference documents where a genre is marked both
// liked and disliked.
func (p *ExplicitPreferences) Validate() error {
	for _, id := range p.Genres.Liked {
		if slices.Contains(p.Genres.Disliked, id) {
			return fmt.Errorf("genre %d: %w", id, ErrGenreConflict)
		}
	}
	return nil
}

// IsEmpty reports whether the document states no preferences at all.
func (p *ExplicitPreferences) IsEmpty() bool {
	return len(p.Genres.Liked) == 0 && len(p.Genres.Disliked) == 0 && len(p.Languages) == 0
}

// Clone returns a deep copy of the preference document.
func (p *ExplicitPreferences) Clone() *ExplicitPreferences {
	c := NewExplicitPreferences()
	c.Genres.Liked = append(c.Genres.Liked, p.Genres.Liked...)
	c.Genres.Disliked = append(c.Genres.Disliked, p.Genres.Disliked...)
	c.Languages = append(c.Languages, p.Languages...)
	return c
}

// LikedGenreSet returns the liked genres as a membership set.
func (p *ExplicitPreferences) LikedGenreSet() map[int]struct{} {
	set := make(map[int]struct{}, len(p.Genres.Liked))
	for _, id := range p.Genres.Liked {
		set[id] = struct{}{}
	}
	return set
}

// LanguageSet returns the preferred languages as a membership set.
func (p *ExplicitPreferences) LanguageSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Languages))
	for _, code := range p.Languages {
		set[code] = struct{}{}
	}
	return set
}

// ReconcileExplicit adjusts a profile from one explicit-preference state
// to another. When oldPrefs is non-nil its contributions are retracted
// first (exact cancellation, since the same weights are subtracted); the
// new preferences are then applied. Callers MUST pass the exact
// previously-applied state as oldPrefs, otherwise the retraction will not
// cancel what was actually applied.
func ReconcileExplicit(p *Profile, newPrefs, oldPrefs *ExplicitPreferences) {
	if oldPrefs != nil {
		applyExplicit(p, oldPrefs, -1)
	}
	if newPrefs != nil {
		applyExplicit(p, newPrefs, 1)
	}
}

// applyExplicit folds a preference document into the profile score maps
// with the given sign.
func applyExplicit(p *Profile, prefs *ExplicitPreferences, sign float64) {
	p.ensure()
	for _, id := range prefs.Genres.Liked {
		p.Genres[id] += sign * LikedGenreWeight
	}
	for _, id := range prefs.Genres.Disliked {
		p.Genres[id] += sign * DislikedGenreWeight
	}
	for _, code := range prefs.Languages {
		p.Languages[code] += sign * PreferredLanguageWeight
	}
}
