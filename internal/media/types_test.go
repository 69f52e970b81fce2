// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	key := Key(TypeMovie, 550)
	assert.Equal(t, "movie:550", key)

	mt, id, err := ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, TypeMovie, mt)
	assert.Equal(t, 550, id)
}

func TestParseKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"missing separator", "movie550"},
		{"unknown type", "book:1"},
		{"non-numeric id", "tv:abc"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseKey(tt.key)
			assert.Error(t, err)
		})
	}
}

func TestDetailsDirector(t *testing.T) {
	d := &Details{
		Credits: Credits{
			Crew: []CrewMember{
				{ID: 10, Name: "Jane Editor", Job: "Editor"},
				{ID: 11, Name: "Sam Director", Job: "Director"},
				{ID: 12, Name: "Second Unit", Job: "Director"},
			},
		},
	}

	director := d.Director()
	require.NotNil(t, director)
	assert.Equal(t, 11, director.ID, "first crew member with job Director wins")

	empty := &Details{}
	assert.Nil(t, empty.Director())
}

func TestDetailsTopCast(t *testing.T) {
	d := &Details{
		Credits: Credits{
			Cast: []CastMember{
				{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}, {ID: 7},
			},
		},
	}

	top := d.TopCast(5)
	require.Len(t, top, 5)
	assert.Equal(t, 1, top[0].ID)
	assert.Equal(t, 5, top[4].ID)

	short := &Details{Credits: Credits{Cast: []CastMember{{ID: 9}}}}
	assert.Len(t, short.TopCast(5), 1)
}

func TestDetailsDecade(t *testing.T) {
	tests := []struct {
		name   string
		detail Details
		decade int
		ok     bool
	}{
		{"movie 1994 buckets to 1990", Details{ReleaseDate: "1994-10-14"}, 1990, true},
		{"movie 2000 buckets to 2000", Details{ReleaseDate: "2000-01-01"}, 2000, true},
		{"series uses first air date", Details{FirstAirDate: "1989-12-17"}, 1980, true},
		{"release date preferred over air date", Details{ReleaseDate: "1971-06-30", FirstAirDate: "2005-01-01"}, 1970, true},
		{"no dates", Details{}, 0, false},
		{"garbage date", Details{ReleaseDate: "soon"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decade, ok := tt.detail.Decade()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.decade, decade)
		})
	}
}

func TestDetailsMediaType(t *testing.T) {
	tv := &Details{FirstAirDate: "2019-11-12"}
	assert.Equal(t, TypeTV, tv.MediaType())

	movie := &Details{ReleaseDate: "2019-11-12"}
	assert.Equal(t, TypeMovie, movie.MediaType())
}

func TestDetailsCountryCodes(t *testing.T) {
	d := &Details{
		ProductionCountries: []ProductionCountry{{ISO3166: "US"}, {ISO3166: "GB"}},
		OriginCountry:       []string{"KR"},
	}
	assert.Equal(t, []string{"US", "GB"}, d.CountryCodes())

	series := &Details{OriginCountry: []string{"KR"}}
	assert.Equal(t, []string{"KR"}, series.CountryCodes(), "falls back to origin_country")
}
