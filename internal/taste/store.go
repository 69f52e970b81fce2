// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Key prefixes for BadgerDB storage.
const (
	profileKeyPrefix = "taste:"
	prefsKeyPrefix   = "prefs:"
)

// Store is the durable whole-document store for taste profiles and
// explicit preferences. Profiles are local-only state that may be
// discarded and rebuilt; preferences are the user's remote-persisted
// document of record.
type Store interface {
	// LoadProfile returns the user's current profile, or the zero-value
	// profile if none is persisted or the persisted blob cannot be
	// parsed. Corrupt data is treated as "no profile", never as an error.
	LoadProfile(ctx context.Context, userID string) *Profile

	// SaveProfile persists the whole profile and notifies subscribers.
	SaveProfile(ctx context.Context, userID string, p *Profile) error

	// ClearProfile resets the user's profile to the zero value and
	// notifies subscribers. Used on logout.
	ClearProfile(ctx context.Context, userID string) error

	// LoadPreferences returns the user's explicit preferences, or
	// (nil, nil) when none have been saved yet.
	LoadPreferences(ctx context.Context, userID string) (*ExplicitPreferences, error)

	// SavePreferences persists the whole preference document. Unlike
	// profile saves, failures here must surface to the caller.
	SavePreferences(ctx context.Context, userID string, prefs *ExplicitPreferences) error

	// DeletePreferences removes the user's preference document.
	DeletePreferences(ctx context.Context, userID string) error

	// Subscribe registers a callback invoked after every profile save or
	// clear, with the affected user ID. Callbacks run synchronously on
	// the mutating goroutine and must be cheap.
	Subscribe(fn func(userID string))
}

// BadgerStore implements Store on an embedded BadgerDB instance.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger

	subMu       sync.RWMutex
	subscribers []func(userID string)
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore creates a Store backed by the given BadgerDB handle.
func NewBadgerStore(db *badger.DB, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "taste-store").Logger(),
	}
}

// LoadProfile returns the persisted profile or the zero-value profile.
func (s *BadgerStore) LoadProfile(ctx context.Context, userID string) *Profile {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return NewProfile()
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile read failed, substituting empty profile")
		return NewProfile()
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile blob corrupt, substituting empty profile")
		return NewProfile()
	}
	p.ensure()
	return &p
}

// SaveProfile persists the whole profile blob and notifies subscribers.
func (s *BadgerStore) SaveProfile(ctx context.Context, userID string, p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+userID), data)
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.notify(userID)
	return nil
}

// ClearProfile deletes the persisted profile and notifies subscribers.
func (s *BadgerStore) ClearProfile(ctx context.Context, userID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(profileKeyPrefix + userID))
	})
	if err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}

	s.notify(userID)
	return nil
}

// LoadPreferences returns the stored preference document, or (nil, nil)
// when the user has never saved preferences.
func (s *BadgerStore) LoadPreferences(ctx context.Context, userID string) (*ExplicitPreferences, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefsKeyPrefix + userID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	prefs := NewExplicitPreferences()
	if err := json.Unmarshal(raw, prefs); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences persists the whole preference document.
func (s *BadgerStore) SavePreferences(ctx context.Context, userID string, prefs *ExplicitPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefsKeyPrefix+userID), data)
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// DeletePreferences removes the user's preference document.
func (s *BadgerStore) DeletePreferences(ctx context.Context, userID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefsKeyPrefix + userID))
	})
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

// Subscribe registers a profile-change callback.
func (s *BadgerStore) Subscribe(fn func(userID string)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *BadgerStore) notify(userID string) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subscribers {
		fn(userID)
	}
}
