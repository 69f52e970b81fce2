// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/cinehub/internal/config"
	"github.com/cinehub/cinehub/internal/media"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.TMDBConfig{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		RateBurst:         1000,
		MaxRetries:        5,
	}, zerolog.Nop())
}

func TestGetMediaDetails(t *testing.T) {
	var gotPath, gotAppend, gotKey string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAppend = r.URL.Query().Get("append_to_response")
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 550,
			"title": "Fight Club",
			"genres": [{"id": 18, "name": "Drama"}],
			"original_language": "en",
			"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
			"credits": {
				"cast": [{"id": 819, "name": "Edward Norton", "order": 0}],
				"crew": [{"id": 7467, "name": "David Fincher", "job": "Director"}]
			},
			"release_date": "1999-10-15"
		}`))
	}))

	details, err := client.GetMediaDetails(context.Background(), media.TypeMovie, 550)
	require.NoError(t, err)

	assert.Equal(t, "/movie/550", gotPath)
	assert.Equal(t, "credits", gotAppend, "credits ride along on the detail request")
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, 550, details.ID)
	assert.Equal(t, []int{18}, []int{details.Genres[0].ID})
	require.NotNil(t, details.Director())
	assert.Equal(t, 7467, details.Director().ID)
}

func TestDiscoverMedia(t *testing.T) {
	var gotQuery map[string][]string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/tv", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 3,
			"results": [{"id": 1399, "name": "Game of Thrones", "genre_ids": [18, 10765], "original_language": "en"}],
			"total_pages": 120,
			"total_results": 2400
		}`))
	}))

	filters := map[string]string{
		"sort_by":     "popularity.desc",
		"with_genres": "18|10765",
	}
	page, err := client.DiscoverMedia(context.Background(), media.TypeTV, filters, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"3"}, gotQuery["page"])
	assert.Equal(t, []string{"popularity.desc"}, gotQuery["sort_by"])
	assert.Equal(t, []string{"18|10765"}, gotQuery["with_genres"])
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 120, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 1399, page.Results[0].ID)
}

func TestGetGenres(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 35, "name": "Comedy"}]}`))
	}))

	genres, err := client.GetGenres(context.Background(), media.TypeMovie)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestGetLanguagesAndCountries(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/configuration/languages":
			_, _ = w.Write([]byte(`[{"iso_639_1": "ko", "english_name": "Korean"}]`))
		case "/configuration/countries":
			_, _ = w.Write([]byte(`[{"iso_3166_1": "KR", "english_name": "South Korea"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	languages, err := client.GetLanguages(context.Background())
	require.NoError(t, err)
	require.Len(t, languages, 1)
	assert.Equal(t, "ko", languages[0].ISO639)

	countries, err := client.GetCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "KR", countries[0].ISO3166)
}

func TestRetryOn429(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 550, "title": "Fight Club"}`))
	}))

	details, err := client.GetMediaDetails(context.Background(), media.TypeMovie, 550)
	require.NoError(t, err, "a single 429 retries transparently")
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 550, details.ID)
}

func TestRetriesExhaust(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)
	client := NewClient(&config.TMDBConfig{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		RateBurst:         1000,
		MaxRetries:        2,
	}, zerolog.Nop())

	_, err := client.GetMediaDetails(context.Background(), media.TypeMovie, 550)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
}

func TestNon200StatusIsError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_message": "The resource you requested could not be found."}`))
	}))

	_, err := client.GetMediaDetails(context.Background(), media.TypeMovie, 999999999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestCircuitBreakerPassesThrough(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/550":
			_, _ = w.Write([]byte(`{"id": 550, "title": "Fight Club"}`))
		case "/discover/movie":
			_, _ = w.Write([]byte(`{"page": 1, "results": [], "total_pages": 1}`))
		case "/genre/movie/list":
			_, _ = w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	cbc := NewCircuitBreakerClient(client, zerolog.Nop())

	details, err := cbc.GetMediaDetails(context.Background(), media.TypeMovie, 550)
	require.NoError(t, err)
	assert.Equal(t, 550, details.ID)

	page, err := cbc.DiscoverMedia(context.Background(), media.TypeMovie, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)

	genres, err := cbc.GetGenres(context.Background(), media.TypeMovie)
	require.NoError(t, err)
	require.Len(t, genres, 1)
}
