// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cinehub/cinehub/internal/library"
	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/recommend"
	"github.com/cinehub/cinehub/internal/taste"
	"github.com/cinehub/cinehub/internal/tmdb"
)

// Recommender produces ranked recommendation pages. Satisfied by
// recommend.Engine.
type Recommender interface {
	GetRecommendations(ctx context.Context, userID string, mediaType media.Type, pageSize, page int) (*recommend.Page, error)
}

// Catalog exposes the thin metadata lookups the UI needs around the
// recommender. Satisfied by tmdb.CachedCatalog and the raw clients.
type Catalog interface {
	GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error)
	GetLanguages(ctx context.Context) ([]tmdb.Language, error)
	GetCountries(ctx context.Context) ([]tmdb.Country, error)
	GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error)
}

// Config holds the router's middleware settings.
type Config struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// Server wires the HTTP handlers to the application services.
type Server struct {
	manager     *taste.Manager
	library     *library.Service
	recommender Recommender
	catalog     Catalog
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewServer creates the HTTP server surface.
func NewServer(manager *taste.Manager, lib *library.Service, recommender Recommender, catalog Catalog, logger zerolog.Logger) *Server {
	return &Server{
		manager:     manager,
		library:     lib,
		recommender: recommender,
		catalog:     catalog,
		validate:    validator.New(),
		logger:      logger.With().Str("component", "api").Logger(),
	}
}

// Router builds the chi router with the full middleware chain and all
// routes mounted.
func (s *Server) Router(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Instrument)
	r.Use(CORS(cfg.CORSOrigins))
	if cfg.RateLimitReqs > 0 {
		r.Use(RateLimit(cfg.RateLimitReqs, cfg.RateLimitWindow))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/genres", s.handleGenres)
		r.Get("/languages", s.handleLanguages)
		r.Get("/countries", s.handleCountries)
		r.Get("/trending", s.handleTrending)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", s.handleGetPreferences)
			r.Put("/preferences", s.handlePutPreferences)
			r.Post("/interactions", s.handlePostInteraction)
			r.Post("/person-views", s.handlePostPersonView)
			r.Post("/onboarding", s.handleOnboarding)
			r.Get("/profile", s.handleGetProfile)
			r.Delete("/profile", s.handleDeleteProfile)
			r.Post("/profile/rebuild", s.handleRebuildProfile)

			r.Route("/library", func(r chi.Router) {
				r.Get("/", s.handleListLibrary)
				r.Put("/order", s.handleReorderLibrary)
				r.Route("/{mediaType}/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetLibraryEntry)
					r.Put("/", s.handlePutLibraryStatus)
					r.Put("/rating", s.handlePutLibraryRating)
					r.Delete("/", s.handleDeleteLibraryEntry)
				})
			})
		})
	})

	return r
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]string{"status": "ok"})
}
