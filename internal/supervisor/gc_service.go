// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerGCService runs Badger value-log garbage collection on an
// interval. GC is a no-op on in-memory databases, so it only needs to
// be supervised for on-disk stores.
type BadgerGCService struct {
	db           *badger.DB
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
}

// NewBadgerGCService builds the GC loop service.
func NewBadgerGCService(db *badger.DB, interval time.Duration, discardRatio float64, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio > 1 {
		discardRatio = 0.5
	}
	return &BadgerGCService{
		db:           db,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("component", "badger-gc").Logger(),
	}
}

// Serve implements suture.Service.
func (g *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := g.runGC(); err != nil {
				g.logger.Warn().Err(err).Msg("value log GC failed")
			}
		}
	}
}

// runGC reclaims value-log space until Badger reports nothing left to
// rewrite.
func (g *BadgerGCService) runGC() error {
	for {
		err := g.db.RunValueLogGC(g.discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
		g.logger.Debug().Msg("value log file rewritten")
	}
}

// String implements fmt.Stringer for supervisor logging.
func (g *BadgerGCService) String() string {
	return "badger-gc"
}
