// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/cinehub/internal/library"
	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/recommend"
	"github.com/cinehub/cinehub/internal/taste"
	"github.com/cinehub/cinehub/internal/tmdb"
)

type stubFetcher struct {
	details map[string]*media.Details
}

func (f *stubFetcher) GetMediaDetails(ctx context.Context, mediaType media.Type, id int) (*media.Details, error) {
	if d, ok := f.details[media.Key(mediaType, id)]; ok {
		return d, nil
	}
	return nil, errors.New("not found")
}

type stubRecommender struct {
	lastUser string
	lastType media.Type
	page     *recommend.Page
	err      error
}

func (r *stubRecommender) GetRecommendations(ctx context.Context, userID string, mediaType media.Type, pageSize, page int) (*recommend.Page, error) {
	r.lastUser = userID
	r.lastType = mediaType
	if r.err != nil {
		return nil, r.err
	}
	if r.page != nil {
		return r.page, nil
	}
	return &recommend.Page{Results: []recommend.ScoredItem{}, Page: page, TotalPages: 0}, nil
}

type stubCatalog struct {
	genres   []media.Genre
	trending *media.DiscoverPage
	err      error
}

func (c *stubCatalog) GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error) {
	return c.genres, c.err
}

func (c *stubCatalog) GetLanguages(ctx context.Context) ([]tmdb.Language, error) {
	return []tmdb.Language{{ISO639: "en", EnglishName: "English"}}, c.err
}

func (c *stubCatalog) GetCountries(ctx context.Context) ([]tmdb.Country, error) {
	return []tmdb.Country{{ISO3166: "US", EnglishName: "United States of America"}}, c.err
}

func (c *stubCatalog) GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error) {
	return c.trending, c.err
}

type testHarness struct {
	server      *Server
	router      http.Handler
	manager     *taste.Manager
	library     *library.Service
	recommender *stubRecommender
	catalog     *stubCatalog
	fetcher     *stubFetcher
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fetcher := &stubFetcher{details: map[string]*media.Details{
		media.Key(media.TypeMovie, 603): {
			ID:               603,
			Title:            "The Matrix",
			Genres:           []media.Genre{{ID: 28, Name: "Action"}},
			OriginalLanguage: "en",
			ReleaseDate:      "1999-03-31",
		},
	}}

	store := taste.NewBadgerStore(db, zerolog.Nop())
	manager := taste.NewManager(store, fetcher, zerolog.Nop())
	lib := library.NewService(db, manager, zerolog.Nop())
	rec := &stubRecommender{}
	cat := &stubCatalog{genres: []media.Genre{{ID: 28, Name: "Action"}}}

	srv := NewServer(manager, lib, rec, cat, zerolog.Nop())
	router := srv.Router(Config{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   0,
		RateLimitWindow: time.Minute,
	})

	return &testHarness{
		server:      srv,
		router:      router,
		manager:     manager,
		library:     lib,
		recommender: rec,
		catalog:     cat,
		fetcher:     fetcher,
	}
}

func (h *testHarness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	h := newTestHarness(t)
	rr := h.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRecommendationsRequireUserID(t *testing.T) {
	h := newTestHarness(t)
	rr := h.do(t, http.MethodGet, "/api/v1/recommendations", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestRecommendationsPassThrough(t *testing.T) {
	h := newTestHarness(t)
	h.recommender.page = &recommend.Page{
		Results:    []recommend.ScoredItem{{MediaType: media.TypeTV, Score: 12.5}},
		Page:       2,
		TotalPages: 9,
	}

	rr := h.do(t, http.MethodGet, "/api/v1/recommendations?user_id=u1&media_type=tv&page=2", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", h.recommender.lastUser)
	assert.Equal(t, media.TypeTV, h.recommender.lastType)
	assert.Contains(t, rr.Body.String(), `"total_pages":9`)
}

func TestRecommendationsRejectBadMediaType(t *testing.T) {
	h := newTestHarness(t)
	rr := h.do(t, http.MethodGet, "/api/v1/recommendations?user_id=u1&media_type=book", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendationsUpstreamFailure(t *testing.T) {
	h := newTestHarness(t)
	h.recommender.err = errors.New("discover down")

	rr := h.do(t, http.MethodGet, "/api/v1/recommendations?user_id=u1", nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeServiceUnavailable, resp.Error.Code)
}

func TestPreferencesRoundTrip(t *testing.T) {
	h := newTestHarness(t)

	body := map[string]interface{}{
		"genres":    map[string]interface{}{"liked": []int{28, 878}, "disliked": []int{27}},
		"languages": []string{"en", "ko"},
	}
	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/preferences", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = h.do(t, http.MethodGet, "/api/v1/users/u1/preferences", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"liked":[28,878]`)
	assert.Contains(t, rr.Body.String(), `"languages":["en","ko"]`)

	// The profile picked up the explicit weights.
	p := h.manager.Profile(context.Background(), "u1")
	assert.InDelta(t, taste.LikedGenreWeight, p.Genres[28], 1e-9)
	assert.InDelta(t, taste.DislikedGenreWeight, p.Genres[27], 1e-9)
	assert.InDelta(t, taste.PreferredLanguageWeight, p.Languages["en"], 1e-9)
}

func TestPreferencesGenreConflict(t *testing.T) {
	h := newTestHarness(t)

	body := map[string]interface{}{
		"genres": map[string]interface{}{"liked": []int{28}, "disliked": []int{28}},
	}
	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/preferences", body)

	assert.Equal(t, http.StatusConflict, rr.Code)
	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConflict, resp.Error.Code)
}

func TestInteractionUpdatesProfile(t *testing.T) {
	h := newTestHarness(t)

	body := map[string]interface{}{"action": "view_trailer", "media_type": "movie", "id": 603}
	rr := h.do(t, http.MethodPost, "/api/v1/users/u1/interactions", body)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	p := h.manager.Profile(context.Background(), "u1")
	assert.InDelta(t, 0.5*taste.GenreWeight, p.Genres[28], 1e-9)
}

func TestInteractionRejectsUnknownAction(t *testing.T) {
	h := newTestHarness(t)

	body := map[string]interface{}{"action": "hovered", "media_type": "movie", "id": 603}
	rr := h.do(t, http.MethodPost, "/api/v1/users/u1/interactions", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInteractionValidation(t *testing.T) {
	h := newTestHarness(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing action", map[string]interface{}{"media_type": "movie", "id": 603}},
		{"bad media type", map[string]interface{}{"action": "watched", "media_type": "book", "id": 603}},
		{"zero id", map[string]interface{}{"action": "watched", "media_type": "movie", "id": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := h.do(t, http.MethodPost, "/api/v1/users/u1/interactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestPersonViewDefaultsWeight(t *testing.T) {
	h := newTestHarness(t)

	body := map[string]interface{}{"person_id": 6384, "department": "Acting"}
	rr := h.do(t, http.MethodPost, "/api/v1/users/u1/person-views", body)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	p := h.manager.Profile(context.Background(), "u1")
	assert.InDelta(t, taste.DefaultPersonViewWeight, p.Actors[6384], 1e-9)
}

func TestOnboardingSeedsProfileAndLibrary(t *testing.T) {
	h := newTestHarness(t)

	body := map[string]interface{}{
		"genres":       map[string]interface{}{"liked": []int{28}, "disliked": []int{27}},
		"languages":    []string{"en"},
		"liked_movies": []int{603},
	}
	rr := h.do(t, http.MethodPost, "/api/v1/users/u1/onboarding", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// The seeded movie sits on the watchlist.
	rr = h.do(t, http.MethodGet, "/api/v1/users/u1/library/movie/603", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"watchlist"`)

	p := h.manager.Profile(context.Background(), "u1")
	assert.InDelta(t, taste.LikedGenreWeight+1*taste.GenreWeight, p.Genres[28], 1e-9)
}

func TestLibraryStatusLifecycle(t *testing.T) {
	h := newTestHarness(t)

	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603", map[string]string{"status": "watchlist"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"status":"watchlist"`)

	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603", map[string]string{"status": "watched"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"watched"`)

	rr = h.do(t, http.MethodGet, "/api/v1/users/u1/library", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"key":"movie:603"`)

	rr = h.do(t, http.MethodDelete, "/api/v1/users/u1/library/movie/603", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/v1/users/u1/library/movie/603", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLibraryRejectsInvalidStatus(t *testing.T) {
	h := newTestHarness(t)

	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603", map[string]string{"status": "loved"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLibraryRejectsBadPathParams(t *testing.T) {
	h := newTestHarness(t)

	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/library/book/603", map[string]string{"status": "watchlist"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/abc", map[string]string{"status": "watchlist"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRatingFlow(t *testing.T) {
	h := newTestHarness(t)

	// Rating an untracked item 404s.
	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603/rating", map[string]int{"rating": 9})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603", map[string]string{"status": "watched"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603/rating", map[string]int{"rating": 9})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"userRating":9`)

	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603/rating", map[string]int{"rating": 11})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReorderReplacesLibrary(t *testing.T) {
	h := newTestHarness(t)
	h.fetcher.details[media.Key(media.TypeMovie, 604)] = &media.Details{ID: 604, ReleaseDate: "2003-05-15"}

	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603", map[string]string{"status": "watchlist"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/604", map[string]string{"status": "watchlist"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodPut, "/api/v1/users/u1/library/order", map[string][]string{"keys": {"movie:604", "movie:603"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Data []library.Keyed `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "movie:604", resp.Data[0].Key)
	assert.Equal(t, "movie:603", resp.Data[1].Key)
}

func TestProfileClearAndRebuild(t *testing.T) {
	h := newTestHarness(t)

	rr := h.do(t, http.MethodPut, "/api/v1/users/u1/library/movie/603", map[string]string{"status": "watched"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodDelete, "/api/v1/users/u1/profile", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	p := h.manager.Profile(context.Background(), "u1")
	assert.False(t, p.HasSignal())

	rr = h.do(t, http.MethodPost, "/api/v1/users/u1/profile/rebuild", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"items":1`)
	assert.Contains(t, rr.Body.String(), `"percent":100`)

	p = h.manager.Profile(context.Background(), "u1")
	assert.InDelta(t, 2*taste.GenreWeight, p.Genres[28], 1e-9)
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestHarness(t)
	h.catalog.trending = &media.DiscoverPage{Page: 1, Results: []media.Item{{ID: 603}}, TotalPages: 10}

	rr := h.do(t, http.MethodGet, "/api/v1/genres?media_type=movie", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Action"`)

	rr = h.do(t, http.MethodGet, "/api/v1/languages", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"english_name":"English"`)

	rr = h.do(t, http.MethodGet, "/api/v1/countries", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/v1/trending?window=day", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/v1/trending?window=month", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCatalogUpstreamFailure(t *testing.T) {
	h := newTestHarness(t)
	h.catalog.err = errors.New("tmdb down")

	rr := h.do(t, http.MethodGet, "/api/v1/genres", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)

	assert.Equal(t, "client-supplied", rr.Header().Get("X-Request-ID"))
}
