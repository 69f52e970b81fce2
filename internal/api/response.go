// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cinehub/cinehub/internal/logging"
)

// APIResponse is the standardized response wrapper for all endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries a machine-readable code and human-readable message.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes for API responses.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// respondSuccess writes a 200 envelope with data.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	respondSuccessStatus(w, r, http.StatusOK, data)
}

// respondSuccessStatus writes a success envelope with a custom status.
func respondSuccessStatus(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeJSON(w, r, status, APIResponse{Success: true, Data: data})
}

// respondError writes an error envelope. The request ID rides along for
// log correlation.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
