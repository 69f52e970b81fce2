// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/metrics"
)

// DetailFetcher provides the full attribute payload for one media item.
// Implemented by the TMDB client; failures are reported as errors and
// treated by this package as absent data.
type DetailFetcher interface {
	GetMediaDetails(ctx context.Context, mediaType media.Type, id int) (*media.Details, error)
}

// Manager owns the per-user taste profile during a session. All profile
// mutations go through it: it serializes read-modify-write cycles per
// user and keeps the session cache of explicit preferences, so multiple
// users (and tests) can coexist without cross-contamination.
type Manager struct {
	store   Store
	fetcher DetailFetcher
	logger  zerolog.Logger

	lockMu    sync.Mutex
	userLocks map[string]*sync.Mutex

	prefsMu sync.RWMutex
	prefs   map[string]*ExplicitPreferences
}

// NewManager creates a Manager on the given store and detail fetcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManager(store Store, fetcher DetailFetcher, logger zerolog.Logger) *Manager {
	return &Manager{
		store:     store,
		fetcher:   fetcher,
		logger:    logger.With().Str("component", "taste").Logger(),
		userLocks: make(map[string]*sync.Mutex),
		prefs:     make(map[string]*ExplicitPreferences),
	}
}

// lockUser serializes profile mutations for one user and returns the
// unlock function. Different users proceed independently.
func (m *Manager) lockUser(userID string) func() {
	m.lockMu.Lock()
	lock, ok := m.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.userLocks[userID] = lock
	}
	m.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Profile returns the user's current persisted profile.
func (m *Manager) Profile(ctx context.Context, userID string) *Profile {
	return m.store.LoadProfile(ctx, userID)
}

// ApplyInteraction folds a single interaction into the user's profile
// and persists it. Equivalent to ApplyTransition with no prior action.
func (m *Manager) ApplyInteraction(ctx context.Context, userID string, action Action, mediaType media.Type, id int, details *media.Details) error {
	return m.ApplyTransition(ctx, userID, action, "", mediaType, id, details)
}

// ApplyTransition moves an item from oldAction to newAction in one
// read-modify-write cycle: the old action's contribution is reversed
// (multiplier -1), then the new action's applied (+1), so moving an item
// between lists never double-counts. The remove sentinel or an unknown
// action on either side is skipped. When details is nil the item's
// attributes are fetched; a failed fetch aborts the update silently
// since minor signals must not block on or hammer the metadata API.
func (m *Manager) ApplyTransition(ctx context.Context, userID string, newAction, oldAction Action, mediaType media.Type, id int, details *media.Details) error {
	if !newAction.Known() && !oldAction.Known() {
		return nil
	}

	if details == nil {
		var err error
		details, err = m.fetcher.GetMediaDetails(ctx, mediaType, id)
		if err != nil || details == nil {
			m.logger.Warn().Err(err).Str("user_id", userID).Int("media_id", id).
				Msg("detail fetch failed, skipping profile update")
			return nil
		}
	}

	unlock := m.lockUser(userID)
	defer unlock()

	profile := m.store.LoadProfile(ctx, userID)

	if oldAction.Known() {
		ApplyScores(profile, oldAction, details, -1)
	}
	if newAction != ActionRemove && newAction.Known() {
		ApplyScores(profile, newAction, details, 1)
	}

	if err := m.store.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}

	if newAction.Known() {
		metrics.ProfileInteractions.WithLabelValues(string(newAction)).Inc()
	}
	m.logger.Debug().Str("user_id", userID).Int("media_id", id).
		Str("action", string(newAction)).Str("previous", string(oldAction)).
		Msg("profile updated")
	return nil
}

// ApplyScores folds one interaction into the profile, scaled by the
// multiplier (+1 to apply, -1 to reverse). All increments are additive
// onto whatever value is already present. No-op for unknown actions or
// absent attributes.
func ApplyScores(p *Profile, action Action, details *media.Details, multiplier float64) {
	base, ok := action.Weight()
	if !ok || details == nil {
		return
	}
	base *= multiplier
	p.ensure()

	for _, g := range details.Genres {
		p.Genres[g.ID] += base * GenreWeight
	}
	if director := details.Director(); director != nil {
		p.Directors[director.ID] += base * DirectorWeight
	}
	for _, actor := range details.TopCast(MaxScoredCast) {
		p.Actors[actor.ID] += base * ActorWeight
	}
	if details.OriginalLanguage != "" {
		p.Languages[details.OriginalLanguage] += base * LanguageWeight
	}
	for _, code := range details.CountryCodes() {
		p.Countries[code] += base * CountryWeight
	}
	if decade, ok := details.Decade(); ok {
		p.Years[decade] += base * DecadeWeight
	}
}

// UpdatePersonAffinity bumps the affinity for one person when the user
// shows direct interest in them (viewing a person page). Department
// selects the category: "Acting" or "Directing". Other departments are
// ignored.
func (m *Manager) UpdatePersonAffinity(ctx context.Context, userID string, personID int, department string, weight float64) error {
	if personID == 0 || weight == 0 {
		return nil
	}

	unlock := m.lockUser(userID)
	defer unlock()

	profile := m.store.LoadProfile(ctx, userID)
	switch department {
	case "Acting":
		profile.Actors[personID] += weight
	case "Directing":
		profile.Directors[personID] += weight
	default:
		return nil
	}

	if err := m.store.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

// ExplicitPreferences returns the user's explicit preferences from the
// session cache, loading them from the store on first access. A missing
// or unreadable document yields the empty preference set.
func (m *Manager) ExplicitPreferences(ctx context.Context, userID string) *ExplicitPreferences {
	m.prefsMu.RLock()
	cached, ok := m.prefs[userID]
	m.prefsMu.RUnlock()
	if ok {
		return cached.Clone()
	}

	prefs, err := m.store.LoadPreferences(ctx, userID)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("preference load failed, using empty preferences")
		prefs = nil
	}
	if prefs == nil {
		prefs = NewExplicitPreferences()
	}

	m.prefsMu.Lock()
	m.prefs[userID] = prefs
	m.prefsMu.Unlock()
	return prefs.Clone()
}

// SaveExplicitPreferences validates and persists a new preference
// document, then reconciles the profile from the previously-applied
// state to the new one. On persistence failure the cached value is
// rolled back and the error is returned: the caller must be able to
// tell the user the save did not take effect.
func (m *Manager) SaveExplicitPreferences(ctx context.Context, userID string, newPrefs *ExplicitPreferences) error {
	if newPrefs == nil {
		newPrefs = NewExplicitPreferences()
	}
	if err := newPrefs.Validate(); err != nil {
		return err
	}

	oldPrefs := m.ExplicitPreferences(ctx, userID)

	if err := m.store.SavePreferences(ctx, userID, newPrefs); err != nil {
		// Roll the cache back so a retry reconciles from the true state.
		m.prefsMu.Lock()
		m.prefs[userID] = oldPrefs
		m.prefsMu.Unlock()
		return fmt.Errorf("save preferences: %w", err)
	}

	m.prefsMu.Lock()
	m.prefs[userID] = newPrefs.Clone()
	m.prefsMu.Unlock()

	unlock := m.lockUser(userID)
	defer unlock()

	profile := m.store.LoadProfile(ctx, userID)
	ReconcileExplicit(profile, newPrefs, oldPrefs)
	if err := m.store.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}

	m.logger.Info().Str("user_id", userID).
		Int("liked_genres", len(newPrefs.Genres.Liked)).
		Int("disliked_genres", len(newPrefs.Genres.Disliked)).
		Int("languages", len(newPrefs.Languages)).
		Msg("explicit preferences saved")
	return nil
}

// ClearProfile discards the user's profile and session preference cache.
// Used on logout.
func (m *Manager) ClearProfile(ctx context.Context, userID string) error {
	unlock := m.lockUser(userID)
	defer unlock()

	m.prefsMu.Lock()
	delete(m.prefs, userID)
	m.prefsMu.Unlock()

	return m.store.ClearProfile(ctx, userID)
}

// setCachedPreferences replaces the session cache entry directly. Used by
// the bulk builder, which clears the profile (wiping the cache) and then
// restores the preferences it was handed.
func (m *Manager) setCachedPreferences(userID string, prefs *ExplicitPreferences) {
	m.prefsMu.Lock()
	m.prefs[userID] = prefs.Clone()
	m.prefsMu.Unlock()
}
