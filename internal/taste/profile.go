// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

// Profile is the accumulated implicit+explicit affinity model for one
// user. Every category defaults to an empty map; absence of a key means
// zero affinity, never an error. Integer-keyed maps serialize with string
// keys, which keeps persisted blobs compatible across clients.
type Profile struct {
	// Genres maps TMDB genre ID to accumulated signed score.
	Genres map[int]float64 `json:"genres"`

	// Actors maps person ID to accumulated signed score.
	Actors map[int]float64 `json:"actors"`

	// Directors maps person ID to accumulated signed score.
	Directors map[int]float64 `json:"directors"`

	// Languages maps ISO 639-1 language code to accumulated signed score.
	Languages map[string]float64 `json:"languages"`

	// Countries maps ISO 3166-1 country code to accumulated signed score.
	Countries map[string]float64 `json:"countries"`

	// Years maps decade (e.g. 1990) to accumulated signed score.
	Years map[int]float64 `json:"years"`
}

// NewProfile returns the zero-value profile with all category maps
// allocated and empty.
func NewProfile() *Profile {
	return &Profile{
		Genres:    make(map[int]float64),
		Actors:    make(map[int]float64),
		Directors: make(map[int]float64),
		Languages: make(map[string]float64),
		Countries: make(map[string]float64),
		Years:     make(map[int]float64),
	}
}

// ensure allocates any nil category map. Called after deserialization so
// partially-populated blobs never surface nil maps to scoring code.
func (p *Profile) ensure() {
	if p.Genres == nil {
		p.Genres = make(map[int]float64)
	}
	if p.Actors == nil {
		p.Actors = make(map[int]float64)
	}
	if p.Directors == nil {
		p.Directors = make(map[int]float64)
	}
	if p.Languages == nil {
		p.Languages = make(map[string]float64)
	}
	if p.Countries == nil {
		p.Countries = make(map[string]float64)
	}
	if p.Years == nil {
		p.Years = make(map[int]float64)
	}
}

// HasSignal reports whether any category holds at least one score.
// Recommendation requests short-circuit to an empty result when the
// profile carries no signal at all.
func (p *Profile) HasSignal() bool {
	return len(p.Genres) > 0 || len(p.Actors) > 0 || len(p.Directors) > 0 ||
		len(p.Languages) > 0 || len(p.Countries) > 0 || len(p.Years) > 0
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := NewProfile()
	for k, v := range p.Genres {
		c.Genres[k] = v
	}
	for k, v := range p.Actors {
		c.Actors[k] = v
	}
	for k, v := range p.Directors {
		c.Directors[k] = v
	}
	for k, v := range p.Languages {
		c.Languages[k] = v
	}
	for k, v := range p.Countries {
		c.Countries[k] = v
	}
	for k, v := range p.Years {
		c.Years[k] = v
	}
	return c
}
