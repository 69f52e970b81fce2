// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package api

import (
	"errors"
	"net/http"

	"github.com/cinehub/cinehub/internal/library"
	"github.com/cinehub/cinehub/internal/logging"
	"github.com/cinehub/cinehub/internal/taste"
)

// handleListLibrary serves GET /api/v1/users/{userID}/library. Entries
// come back in manual order.
func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.library.List(r.Context(), userID(r))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list library failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load library")
		return
	}
	respondSuccess(w, r, entries)
}

// handleGetLibraryEntry serves
// GET /api/v1/users/{userID}/library/{mediaType}/{id}.
func (s *Server) handleGetLibraryEntry(w http.ResponseWriter, r *http.Request) {
	mt, err := pathMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	entry, err := s.library.Get(r.Context(), userID(r), mt, id)
	if err != nil {
		if errors.Is(err, library.ErrNotInLibrary) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "item is not in the library")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("get library entry failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load library entry")
		return
	}
	respondSuccess(w, r, entry)
}

// statusRequest sets an item's list status.
type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// handlePutLibraryStatus serves
// PUT /api/v1/users/{userID}/library/{mediaType}/{id}. Creates the
// entry when absent and moves it between lists otherwise.
func (s *Server) handlePutLibraryStatus(w http.ResponseWriter, r *http.Request) {
	mt, err := pathMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var req statusRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	if err := s.library.UpdateItemStatus(r.Context(), userID(r), mt, id, taste.Action(req.Status)); err != nil {
		if errors.Is(err, library.ErrInvalidStatus) {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("update item status failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to update item")
		return
	}

	entry, err := s.library.Get(r.Context(), userID(r), mt, id)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("reload library entry failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load library entry")
		return
	}
	respondSuccess(w, r, entry)
}

// handleDeleteLibraryEntry serves
// DELETE /api/v1/users/{userID}/library/{mediaType}/{id}. Removing an
// absent entry is a no-op.
func (s *Server) handleDeleteLibraryEntry(w http.ResponseWriter, r *http.Request) {
	mt, err := pathMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	if err := s.library.UpdateItemStatus(r.Context(), userID(r), mt, id, taste.ActionRemove); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("remove library entry failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to remove item")
		return
	}
	respondSuccess(w, r, nil)
}

// ratingRequest sets an item's personal rating.
type ratingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=10"`
}

// handlePutLibraryRating serves
// PUT /api/v1/users/{userID}/library/{mediaType}/{id}/rating.
func (s *Server) handlePutLibraryRating(w http.ResponseWriter, r *http.Request) {
	mt, err := pathMediaType(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var req ratingRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	if err := s.library.Rate(r.Context(), userID(r), mt, id, req.Rating); err != nil {
		switch {
		case errors.Is(err, library.ErrNotInLibrary):
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "item is not in the library")
		case errors.Is(err, library.ErrInvalidRating):
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			logging.Ctx(r.Context()).Error().Err(err).Msg("rate item failed")
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to rate item")
		}
		return
	}

	entry, err := s.library.Get(r.Context(), userID(r), mt, id)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("reload library entry failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load library entry")
		return
	}
	respondSuccess(w, r, entry)
}

// orderRequest replaces the library's manual ordering.
type orderRequest struct {
	Keys []string `json:"keys" validate:"required,min=1,dive,required"`
}

// handleReorderLibrary serves PUT /api/v1/users/{userID}/library/order.
// The listed keys become the library's new content and ordering; keys
// not listed are dropped, mirroring a full drag-and-drop save.
func (s *Server) handleReorderLibrary(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	if err := s.library.Reorder(r.Context(), userID(r), req.Keys); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("reorder library failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to reorder library")
		return
	}

	entries, err := s.library.List(r.Context(), userID(r))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list library failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load library")
		return
	}
	respondSuccess(w, r, entries)
}
