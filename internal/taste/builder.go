// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/metrics"
)

// LibraryEntry is one replayable item of a user's library: its identity,
// the recorded list status, and an optional 1-10 user rating (0 = unrated).
type LibraryEntry struct {
	MediaType  media.Type `json:"media_type"`
	ID         int        `json:"id"`
	Status     Action     `json:"status"`
	UserRating int        `json:"user_rating,omitempty"`
}

// Progress is one bulk-build progress event. Percent increases
// monotonically from 0 to 100 over the course of a rebuild.
type Progress struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// Rating thresholds for the synthetic rating signals.
const (
	ratedHighThreshold = 8
	ratedLowThreshold  = 4
)

// defaultRebuildConcurrency bounds the detail-fetch fan-out during a
// rebuild.
const defaultRebuildConcurrency = 8

// RatingAction maps a 1-10 user rating to its synthetic profile signal:
// rated_high for 8-10, rated_low for 1-4, none for the middle band or
// unrated entries.
func RatingAction(rating int) (Action, bool) {
	switch {
	case rating >= ratedHighThreshold:
		return ActionRatedHigh, true
	case rating >= 1 && rating <= ratedLowThreshold:
		return ActionRatedLow, true
	default:
		return "", false
	}
}

// RebuildFromLibrary discards the user's profile and rebuilds it from
// scratch by replaying the full library plus the supplied explicit
// preferences. Used at login and after onboarding.
//
// Item details are fetched with bounded concurrency; an individual fetch
// failure simply contributes no score and never aborts the build. An
// entry contributes its status signal (when known and not the remove
// sentinel) and, independently, a synthetic rating signal when rated in
// the high or low band - a "watched, rated 9" item receives both.
// Explicit preferences are applied strictly after every per-item
// contribution, and the final profile is persisted once.
//
// Progress events are sent on the progress channel when it is non-nil;
// the caller must drain it. The channel is not closed by this method.
func (m *Manager) RebuildFromLibrary(ctx context.Context, userID string, entries []LibraryEntry, prefs *ExplicitPreferences, progress chan<- Progress) error {
	report := func(percent int, message string) {
		if progress != nil {
			progress <- Progress{Percent: percent, Message: message}
		}
	}

	start := time.Now()
	status := "error"
	defer func() {
		metrics.ProfileRebuilds.WithLabelValues(status).Inc()
		metrics.ProfileRebuildDuration.Observe(time.Since(start).Seconds())
	}()

	if err := m.ClearProfile(ctx, userID); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	// Clearing wipes the session preference cache; restore what we were
	// handed so subsequent reads see the right state.
	if prefs != nil {
		m.setCachedPreferences(userID, prefs)
	}

	report(0, "Analyzing your library...")

	if len(entries) == 0 {
		profile := NewProfile()
		if prefs != nil {
			ReconcileExplicit(profile, prefs, nil)
		}
		if err := m.store.SaveProfile(ctx, userID, profile); err != nil {
			return fmt.Errorf("persist profile: %w", err)
		}
		report(100, "Library empty, profile initialized.")
		status = "success"
		return nil
	}

	details := m.fetchAllDetails(ctx, entries)
	report(20, "Building your taste profile...")

	profile := NewProfile()
	for i, entry := range entries {
		if d := details[i]; d != nil {
			if entry.Status != ActionRemove && entry.Status.Known() {
				ApplyScores(profile, entry.Status, d, 1)
			}
			if action, ok := RatingAction(entry.UserRating); ok {
				ApplyScores(profile, action, d, 1)
			}
		}
		percent := 20 + (70*(i+1))/len(entries)
		report(percent, fmt.Sprintf("Processing %d of %d...", i+1, len(entries)))
	}

	// Explicit bonuses go on last so they are applied exactly once and
	// never interleaved with per-item scoring.
	if prefs != nil {
		ReconcileExplicit(profile, prefs, nil)
	}

	unlock := m.lockUser(userID)
	defer unlock()

	if err := m.store.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}

	report(95, "Finalizing profile...")
	report(100, "Profile complete!")

	status = "success"
	m.logger.Info().Str("user_id", userID).Int("entries", len(entries)).
		Msg("profile rebuilt from library")
	return nil
}

// fetchAllDetails fetches details for every entry with bounded fan-out.
// The result slice is index-aligned with entries; failed fetches leave a
// nil slot.
func (m *Manager) fetchAllDetails(ctx context.Context, entries []LibraryEntry) []*media.Details {
	details := make([]*media.Details, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultRebuildConcurrency)
	for i, entry := range entries {
		g.Go(func() error {
			d, err := m.fetcher.GetMediaDetails(gctx, entry.MediaType, entry.ID)
			if err != nil {
				m.logger.Warn().Err(err).Int("media_id", entry.ID).
					Msg("detail fetch failed during rebuild, skipping item")
				return nil
			}
			details[i] = d
			return nil
		})
	}
	// Workers never return errors; failures degrade to nil slots.
	_ = g.Wait()

	return details
}
