// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/taste"
)

const libraryKeyPrefix = "library:"

// ErrNotInLibrary is returned when an operation requires an existing
// library entry, such as rating an item that is not on any list.
var ErrNotInLibrary = errors.New("item is not in the library")

// ErrInvalidStatus is returned for statuses that are not list statuses.
var ErrInvalidStatus = errors.New("not a list status")

// ErrInvalidRating is returned for ratings outside the 1-10 range.
var ErrInvalidRating = errors.New("rating out of range 1-10")

// Entry is one tracked item: its list status, manual sort position and
// optional personal rating (1-10, 0 when unrated).
type Entry struct {
	Status     taste.Action `json:"status"`
	Order      int          `json:"order"`
	UserRating int          `json:"userRating,omitempty"`
}

// validStatuses are the list states an entry can hold. Rating and view
// signals are interactions, not list states, and never appear here.
var validStatuses = map[taste.Action]struct{}{
	taste.ActionWatchlist:     {},
	taste.ActionWatched:       {},
	taste.ActionCaughtUp:      {},
	taste.ActionNotInterested: {},
}

// Keyed pairs an entry with its canonical library key for ordered
// listings.
type Keyed struct {
	Key   string `json:"key"`
	Entry Entry  `json:"entry"`
}

// Service manages per-user libraries on top of the shared Badger store
// and forwards status transitions to the taste manager.
type Service struct {
	db      *badger.DB
	manager *taste.Manager
	logger  zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a library service.
func NewService(db *badger.DB, manager *taste.Manager, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		manager: manager,
		logger:  logger.With().Str("component", "library").Logger(),
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockUser serializes read-modify-write cycles on one user's document.
func (s *Service) lockUser(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *Service) load(userID string) (map[string]Entry, error) {
	entries := map[string]Entry{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(libraryKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load library for %s: %w", userID, err)
	}
	return entries, nil
}

func (s *Service) save(userID string, entries map[string]Entry) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode library for %s: %w", userID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(libraryKeyPrefix+userID), blob)
	})
	if err != nil {
		return fmt.Errorf("save library for %s: %w", userID, err)
	}
	return nil
}

// Entries returns the user's full library keyed by "mediaType:id".
func (s *Service) Entries(ctx context.Context, userID string) (map[string]Entry, error) {
	return s.load(userID)
}

// List returns the library sorted by manual order.
func (s *Service) List(ctx context.Context, userID string) ([]Keyed, error) {
	entries, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	list := make([]Keyed, 0, len(entries))
	for key, entry := range entries {
		list = append(list, Keyed{Key: key, Entry: entry})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Entry.Order != list[j].Entry.Order {
			return list[i].Entry.Order < list[j].Entry.Order
		}
		return list[i].Key < list[j].Key
	})
	return list, nil
}

// Get returns one entry, or nil when the item is not tracked.
func (s *Service) Get(ctx context.Context, userID string, mediaType media.Type, id int) (*Entry, error) {
	entries, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	if entry, ok := entries[media.Key(mediaType, id)]; ok {
		return &entry, nil
	}
	return nil, nil
}

// SeenKeys returns the membership key set used by the recommendation
// assembler for exclusion.
func (s *Service) SeenKeys(ctx context.Context, userID string) (map[string]struct{}, error) {
	entries, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(entries))
	for key := range entries {
		seen[key] = struct{}{}
	}
	return seen, nil
}

// UpdateItemStatus moves an item to a new list status, creating the
// entry if needed. taste.ActionRemove deletes the entry. The personal
// rating survives status changes; a new entry is appended after the
// current maximum order. The resulting transition (new status, previous
// status reversed) feeds the taste profile.
func (s *Service) UpdateItemStatus(ctx context.Context, userID string, mediaType media.Type, id int, status taste.Action) error {
	if status != taste.ActionRemove {
		if _, ok := validStatuses[status]; !ok {
			return fmt.Errorf("update status %q: %w", status, ErrInvalidStatus)
		}
	}

	unlock := s.lockUser(userID)
	defer unlock()

	entries, err := s.load(userID)
	if err != nil {
		return err
	}

	key := media.Key(mediaType, id)
	previousStatus := taste.ActionRemove
	current, exists := entries[key]
	if exists {
		previousStatus = current.Status
	}

	if status == taste.ActionRemove {
		if !exists {
			return nil
		}
		delete(entries, key)
	} else {
		order := current.Order
		if !exists {
			order = nextOrder(entries)
		}
		entries[key] = Entry{Status: status, Order: order, UserRating: current.UserRating}
	}

	if err := s.save(userID, entries); err != nil {
		return err
	}

	if err := s.manager.ApplyTransition(ctx, userID, status, previousStatus, mediaType, id, nil); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("taste transition failed after status update")
	}
	return nil
}

// Rate records a personal rating for a tracked item. Crossing the
// rated_high/rated_low thresholds feeds the taste profile as a
// transition, so re-rating reverses the previous rating's signal.
func (s *Service) Rate(ctx context.Context, userID string, mediaType media.Type, id int, rating int) error {
	if rating < 1 || rating > 10 {
		return fmt.Errorf("rate: %d: %w", rating, ErrInvalidRating)
	}

	unlock := s.lockUser(userID)
	defer unlock()

	entries, err := s.load(userID)
	if err != nil {
		return err
	}

	key := media.Key(mediaType, id)
	current, exists := entries[key]
	if !exists {
		return fmt.Errorf("rate %s: %w", key, ErrNotInLibrary)
	}

	oldRating := current.UserRating
	current.UserRating = rating
	entries[key] = current

	if err := s.save(userID, entries); err != nil {
		return err
	}

	newAction, newOK := taste.RatingAction(rating)
	oldAction, oldOK := taste.RatingAction(oldRating)
	if !newOK {
		newAction = taste.ActionRemove
	}
	if !oldOK {
		oldAction = taste.ActionRemove
	}
	if newAction == oldAction {
		return nil
	}
	if err := s.manager.ApplyTransition(ctx, userID, newAction, oldAction, mediaType, id, nil); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("taste transition failed after rating")
	}
	return nil
}

// Reorder replaces the manual ordering with the given key sequence.
// Keys not currently in the library are skipped; entries not listed are
// dropped, mirroring a full drag-reorder save.
func (s *Service) Reorder(ctx context.Context, userID string, orderedKeys []string) error {
	if len(orderedKeys) == 0 {
		return nil
	}

	unlock := s.lockUser(userID)
	defer unlock()

	entries, err := s.load(userID)
	if err != nil {
		return err
	}

	reordered := make(map[string]Entry, len(orderedKeys))
	for index, key := range orderedKeys {
		entry, ok := entries[key]
		if !ok {
			continue
		}
		entry.Order = index
		reordered[key] = entry
	}
	return s.save(userID, reordered)
}

// RebuildEntries converts the library into the bulk builder's replay
// form.
func (s *Service) RebuildEntries(ctx context.Context, userID string) ([]taste.LibraryEntry, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]taste.LibraryEntry, 0, len(list))
	for _, keyed := range list {
		mediaType, id, err := media.ParseKey(keyed.Key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", keyed.Key).Msg("skipping malformed library key")
			continue
		}
		entries = append(entries, taste.LibraryEntry{
			MediaType:  mediaType,
			ID:         id,
			Status:     keyed.Entry.Status,
			UserRating: keyed.Entry.UserRating,
		})
	}
	return entries, nil
}

// Onboard applies a first-run wizard result: the explicit preferences
// are saved and reconciled into the profile, then each seed movie joins
// the watchlist, feeding the profile its first implicit signals.
func (s *Service) Onboard(ctx context.Context, userID string, prefs *taste.ExplicitPreferences, likedMovieIDs []int) error {
	if prefs != nil {
		if err := s.manager.SaveExplicitPreferences(ctx, userID, prefs); err != nil {
			return fmt.Errorf("onboard: %w", err)
		}
	}
	for _, id := range likedMovieIDs {
		if id <= 0 {
			continue
		}
		if err := s.UpdateItemStatus(ctx, userID, media.TypeMovie, id, taste.ActionWatchlist); err != nil {
			return fmt.Errorf("onboard: seed movie %d: %w", id, err)
		}
	}
	return nil
}

// nextOrder appends after the current maximum, or starts at zero for an
// empty library.
func nextOrder(entries map[string]Entry) int {
	if len(entries) == 0 {
		return 0
	}
	max := 0
	for _, entry := range entries {
		if entry.Order > max {
			max = entry.Order
		}
	}
	return max + 1
}
