// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/cinehub/cinehub/internal/logging"
	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/taste"
)

// maxBodyBytes caps request bodies; every payload here is a small JSON
// document.
const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON request body into v and runs struct
// validation on it.
func (s *Server) decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return s.validate.Struct(v)
}

// queryInt reads an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryMediaType reads the media_type query parameter, defaulting to
// movie.
func queryMediaType(r *http.Request) (media.Type, error) {
	raw := r.URL.Query().Get("media_type")
	if raw == "" {
		return media.TypeMovie, nil
	}
	mt := media.Type(raw)
	if !mt.Valid() {
		return "", fmt.Errorf("invalid media_type %q", raw)
	}
	return mt, nil
}

// pathMediaType reads the {mediaType} URL parameter.
func pathMediaType(r *http.Request) (media.Type, error) {
	raw := chi.URLParam(r, "mediaType")
	mt := media.Type(raw)
	if !mt.Valid() {
		return "", fmt.Errorf("invalid media type %q", raw)
	}
	return mt, nil
}

// pathID reads the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid media id %q", raw)
	}
	return id, nil
}

func userID(r *http.Request) string {
	return chi.URLParam(r, "userID")
}

// handleRecommendations serves GET /api/v1/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("user_id")
	if uid == "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "user_id is required")
		return
	}

	mt, err := queryMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	pageSize := queryInt(r, "page_size", 0)
	page := queryInt(r, "page", 1)

	result, err := s.recommender.GetRecommendations(r.Context(), uid, mt, pageSize, page)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", uid).Msg("recommendations failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeServiceUnavailable, "recommendations unavailable")
		return
	}
	respondSuccess(w, r, result)
}

// preferencesRequest mirrors the stored explicit preference document.
type preferencesRequest struct {
	Genres struct {
		Liked    []int `json:"liked" validate:"dive,min=1"`
		Disliked []int `json:"disliked" validate:"dive,min=1"`
	} `json:"genres"`
	Languages []string `json:"languages" validate:"dive,len=2"`
}

func (req *preferencesRequest) toPreferences() *taste.ExplicitPreferences {
	prefs := taste.NewExplicitPreferences()
	prefs.Genres.Liked = append(prefs.Genres.Liked, req.Genres.Liked...)
	prefs.Genres.Disliked = append(prefs.Genres.Disliked, req.Genres.Disliked...)
	prefs.Languages = append(prefs.Languages, req.Languages...)
	return prefs
}

// handleGetPreferences serves GET /api/v1/users/{userID}/preferences.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, s.manager.ExplicitPreferences(r.Context(), userID(r)))
}

// handlePutPreferences serves PUT /api/v1/users/{userID}/preferences.
// Replaces the preference document whole; the profile is reconciled
// against the previous document so re-saving never double-counts.
func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	if err := s.manager.SaveExplicitPreferences(r.Context(), userID(r), req.toPreferences()); err != nil {
		if errors.Is(err, taste.ErrGenreConflict) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("save preferences failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to save preferences")
		return
	}
	respondSuccess(w, r, s.manager.ExplicitPreferences(r.Context(), userID(r)))
}

// interactionRequest is one implicit taste signal.
type interactionRequest struct {
	Action    string `json:"action" validate:"required"`
	MediaType string `json:"media_type" validate:"required,oneof=movie tv"`
	ID        int    `json:"id" validate:"required,min=1"`
}

// handlePostInteraction serves POST /api/v1/users/{userID}/interactions.
// Accepts any weighted action (view_media_page, view_trailer, ...) and
// folds it into the taste profile.
func (s *Server) handlePostInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	action := taste.Action(req.Action)
	if !action.Known() {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			fmt.Sprintf("unknown action %q", req.Action))
		return
	}

	if err := s.manager.ApplyInteraction(r.Context(), userID(r), action, media.Type(req.MediaType), req.ID, nil); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("apply interaction failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to record interaction")
		return
	}
	respondSuccessStatus(w, r, http.StatusAccepted, nil)
}

// personViewRequest records a person-page view.
type personViewRequest struct {
	PersonID   int     `json:"person_id" validate:"required,min=1"`
	Department string  `json:"department" validate:"required"`
	Weight     float64 `json:"weight" validate:"omitempty,gt=0"`
}

// handlePostPersonView serves POST /api/v1/users/{userID}/person-views.
// Bumps director or actor affinity depending on the person's known-for
// department.
func (s *Server) handlePostPersonView(w http.ResponseWriter, r *http.Request) {
	var req personViewRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	weight := req.Weight
	if weight == 0 {
		weight = taste.DefaultPersonViewWeight
	}

	if err := s.manager.UpdatePersonAffinity(r.Context(), userID(r), req.PersonID, req.Department, weight); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("person view failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to record person view")
		return
	}
	respondSuccessStatus(w, r, http.StatusAccepted, nil)
}

// onboardingRequest carries the one-time preference questionnaire.
type onboardingRequest struct {
	Genres struct {
		Liked    []int `json:"liked" validate:"dive,min=1"`
		Disliked []int `json:"disliked" validate:"dive,min=1"`
	} `json:"genres"`
	Languages   []string `json:"languages" validate:"dive,len=2"`
	LikedMovies []int    `json:"liked_movies" validate:"dive,min=1"`
}

// handleOnboarding serves POST /api/v1/users/{userID}/onboarding.
// Saves the stated preferences and seeds the watchlist with the picked
// movies so the profile has signal from the first session.
func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	prefs := taste.NewExplicitPreferences()
	prefs.Genres.Liked = append(prefs.Genres.Liked, req.Genres.Liked...)
	prefs.Genres.Disliked = append(prefs.Genres.Disliked, req.Genres.Disliked...)
	prefs.Languages = append(prefs.Languages, req.Languages...)

	if err := s.library.Onboard(r.Context(), userID(r), prefs, req.LikedMovies); err != nil {
		if errors.Is(err, taste.ErrGenreConflict) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("onboarding failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "onboarding failed")
		return
	}
	respondSuccessStatus(w, r, http.StatusCreated, s.manager.Profile(r.Context(), userID(r)))
}

// handleGetProfile serves GET /api/v1/users/{userID}/profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, s.manager.Profile(r.Context(), userID(r)))
}

// handleDeleteProfile serves DELETE /api/v1/users/{userID}/profile.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.ClearProfile(r.Context(), userID(r)); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("clear profile failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to clear profile")
		return
	}
	respondSuccess(w, r, nil)
}

// rebuildResult is the response of a synchronous profile rebuild.
type rebuildResult struct {
	Items    int              `json:"items"`
	Progress []taste.Progress `json:"progress"`
}

// handleRebuildProfile serves POST /api/v1/users/{userID}/profile/rebuild.
// Replays the user's whole library plus explicit preferences into a
// fresh profile and returns the progress trail.
func (s *Server) handleRebuildProfile(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	entries, err := s.library.RebuildEntries(r.Context(), uid)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("load library for rebuild failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load library")
		return
	}
	prefs := s.manager.ExplicitPreferences(r.Context(), uid)

	progress := make(chan taste.Progress, 16)
	collected := make([]taste.Progress, 0, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			collected = append(collected, ev)
		}
	}()

	err = s.manager.RebuildFromLibrary(r.Context(), uid, entries, prefs, progress)
	close(progress)
	<-done

	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("profile rebuild failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "profile rebuild failed")
		return
	}
	respondSuccess(w, r, rebuildResult{Items: len(entries), Progress: collected})
}
