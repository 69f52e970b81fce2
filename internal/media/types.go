// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package media

import (
	"fmt"
	"strconv"
)

// Type identifies the kind of media item.
type Type string

const (
	// TypeMovie is a feature film.
	TypeMovie Type = "movie"
	// TypeTV is a television series.
	TypeTV Type = "tv"
)

// Valid reports whether t is a known media type.
func (t Type) Valid() bool {
	return t == TypeMovie || t == TypeTV
}

// Key returns the canonical library key for an item, e.g. "movie:550".
// Library membership and de-duplication are keyed by this value.
func Key(t Type, id int) string {
	return string(t) + ":" + strconv.Itoa(id)
}

// ParseKey splits a canonical library key back into its media type and ID.
func ParseKey(key string) (Type, int, error) {
	for i := 0; i < len(key); i++ {
		if key[i] != ':' {
			continue
		}
		t := Type(key[:i])
		if !t.Valid() {
			return "", 0, fmt.Errorf("parse key %q: unknown media type", key)
		}
		id, err := strconv.Atoi(key[i+1:])
		if err != nil {
			return "", 0, fmt.Errorf("parse key %q: %w", key, err)
		}
		return t, id, nil
	}
	return "", 0, fmt.Errorf("parse key %q: missing separator", key)
}

// Genre is a genre with its TMDB identifier.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a billed cast entry, ordered by billing position.
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

// CrewMember is a crew entry with its job designation.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

// Credits holds the cast and crew of a media item.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// ProductionCountry is a production country with its ISO 3166-1 code.
type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name,omitempty"`
}

// Item is a shallow media row as returned by discover/listing endpoints.
// It lacks credits; only list-level attributes are present.
type Item struct {
	ID               int     `json:"id"`
	MediaType        Type    `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	OriginCountry    []string `json:"origin_country,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
}

// DisplayTitle returns the movie title or series name, whichever is set.
func (i *Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// DiscoverPage is one page of a paginated discovery or listing response.
type DiscoverPage struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// Details is the full per-item payload including credits and production
// metadata. Fetched via the per-item detail endpoint with credits appended.
type Details struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title,omitempty"`
	Name                string              `json:"name,omitempty"`
	Genres              []Genre             `json:"genres,omitempty"`
	OriginalLanguage    string              `json:"original_language,omitempty"`
	ProductionCountries []ProductionCountry `json:"production_countries,omitempty"`
	OriginCountry       []string            `json:"origin_country,omitempty"`
	Credits             Credits             `json:"credits"`
	ReleaseDate         string              `json:"release_date,omitempty"`
	FirstAirDate        string              `json:"first_air_date,omitempty"`
	Popularity          float64             `json:"popularity,omitempty"`
	VoteAverage         float64             `json:"vote_average,omitempty"`
	VoteCount           int                 `json:"vote_count,omitempty"`
	Overview            string              `json:"overview,omitempty"`
	PosterPath          string              `json:"poster_path,omitempty"`
	BackdropPath        string              `json:"backdrop_path,omitempty"`
}

// DisplayTitle returns the movie title or series name, whichever is set.
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// MediaType infers the media type from the payload shape: series payloads
// carry a first air date, movie payloads a release date.
func (d *Details) MediaType() Type {
	if d.FirstAirDate != "" {
		return TypeTV
	}
	return TypeMovie
}

// Director returns the first crew member whose job is "Director",
// or nil if the credits carry none.
func (d *Details) Director() *CrewMember {
	for i := range d.Credits.Crew {
		if d.Credits.Crew[i].Job == "Director" {
			return &d.Credits.Crew[i]
		}
	}
	return nil
}

// TopCast returns up to the first n billed cast members.
func (d *Details) TopCast(n int) []CastMember {
	if len(d.Credits.Cast) <= n {
		return d.Credits.Cast
	}
	return d.Credits.Cast[:n]
}

// CountryCodes returns the ISO codes of all production countries, falling
// back to the origin country list when production countries are absent
// (series payloads often carry only origin_country).
func (d *Details) CountryCodes() []string {
	if len(d.ProductionCountries) > 0 {
		codes := make([]string, 0, len(d.ProductionCountries))
		for _, c := range d.ProductionCountries {
			codes = append(codes, c.ISO3166)
		}
		return codes
	}
	return d.OriginCountry
}

// ReleaseYear returns the four-digit release year parsed from the release
// or first-air date. The second return is false when no date is present
// or the date does not start with a parseable year.
func (d *Details) ReleaseYear() (int, bool) {
	return yearOf(d.ReleaseDate, d.FirstAirDate)
}

// Decade truncates the release year to its decade, e.g. 1994 -> 1990.
func (d *Details) Decade() (int, bool) {
	year, ok := d.ReleaseYear()
	if !ok {
		return 0, false
	}
	return (year / 10) * 10, true
}

func yearOf(dates ...string) (int, bool) {
	for _, date := range dates {
		if len(date) < 4 {
			continue
		}
		year, err := strconv.Atoi(date[:4])
		if err != nil {
			continue
		}
		return year, true
	}
	return 0, false
}
