// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package api

import (
	"net/http"

	"github.com/cinehub/cinehub/internal/logging"
)

// handleGenres serves GET /api/v1/genres?media_type=movie|tv.
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	mt, err := queryMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	genres, err := s.catalog.GetGenres(r.Context(), mt)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("genre lookup failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeServiceUnavailable, "genre catalog unavailable")
		return
	}
	respondSuccess(w, r, genres)
}

// handleLanguages serves GET /api/v1/languages.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := s.catalog.GetLanguages(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("language lookup failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeServiceUnavailable, "language catalog unavailable")
		return
	}
	respondSuccess(w, r, languages)
}

// handleCountries serves GET /api/v1/countries.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := s.catalog.GetCountries(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("country lookup failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeServiceUnavailable, "country catalog unavailable")
		return
	}
	respondSuccess(w, r, countries)
}

// handleTrending serves GET /api/v1/trending?media_type=&window=&page=.
// The window is day or week, defaulting to week.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	mt, err := queryMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	window := r.URL.Query().Get("window")
	if window == "" {
		window = "week"
	}
	if window != "day" && window != "week" {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "window must be day or week")
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	trending, err := s.catalog.GetTrending(r.Context(), mt, window, page)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("trending lookup failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeServiceUnavailable, "trending unavailable")
		return
	}
	respondSuccess(w, r, trending)
}
