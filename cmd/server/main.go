// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package main is the entry point for the CineHub server.
//
// CineHub is a taste-based movie and TV discovery backend. It maintains
// a per-user taste profile from explicit preferences and implicit
// interactions, tracks a personal library of watchlisted, watched and
// hidden items, and serves ranked recommendations assembled from the
// TMDB discovery API.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file and CINEHUB_ env vars (Koanf v2)
//  2. Storage: embedded BadgerDB for profiles, preferences and libraries
//  3. TMDB client: rate limited, retrying, wrapped in a circuit breaker
//  4. Services: taste manager, library service, recommendation engine
//  5. HTTP server: REST API under /api/v1 plus /healthz and /metrics
//
// Long-running parts (the HTTP server and the store's GC loop) run under
// a suture supervisor tree and restart with backoff on failure. SIGINT
// and SIGTERM trigger a graceful shutdown that drains in-flight requests
// before closing the store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"

	"github.com/cinehub/cinehub/internal/api"
	"github.com/cinehub/cinehub/internal/config"
	"github.com/cinehub/cinehub/internal/library"
	"github.com/cinehub/cinehub/internal/logging"
	"github.com/cinehub/cinehub/internal/recommend"
	"github.com/cinehub/cinehub/internal/supervisor"
	"github.com/cinehub/cinehub/internal/taste"
	"github.com/cinehub/cinehub/internal/tmdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("in_memory_store", cfg.Store.InMemory).
		Msg("Starting CineHub")

	db, err := openStore(&cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	tmdbClient := tmdb.NewClient(&cfg.TMDB, logger)
	breaker := tmdb.NewCircuitBreakerClient(tmdbClient, logger)
	catalog := tmdb.NewCachedCatalog(breaker)
	defer catalog.Stop()

	store := taste.NewBadgerStore(db, logger)
	manager := taste.NewManager(store, breaker, logger)
	lib := library.NewService(db, manager, logger)

	engine, err := recommend.NewEngine(&recommend.Config{
		DefaultPageSize:   cfg.Recommend.DefaultPageSize,
		MaxPageSize:       cfg.Recommend.MaxPageSize,
		PagesPerRequest:   cfg.Recommend.PagesPerRequest,
		PromisingFactor:   cfg.Recommend.PromisingFactor,
		MaxDiscoverPages:  cfg.Recommend.MaxDiscoverPages,
		DetailConcurrency: cfg.Recommend.DetailConcurrency,
	}, manager, lib, breaker, breaker, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	server := api.NewServer(manager, lib, engine, catalog, logger)
	router := server.Router(api.Config{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	if !cfg.Store.InMemory {
		tree.AddDataService(supervisor.NewBadgerGCService(db, cfg.Store.GCInterval, cfg.Store.GCDiscardRatio, logger))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", httpServer.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stopped gracefully")
}

// openStore opens the embedded BadgerDB, on disk or in memory per the
// configuration. Badger's own logging is silenced in favor of ours.
func openStore(cfg *config.StoreConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return db, nil
}
