// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package taste

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) (*BadgerStore, *badger.DB) {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db, testLogger()), db
}

func TestBadgerStoreLoadMissingProfile(t *testing.T) {
	store, _ := newTestBadgerStore(t)

	p := store.LoadProfile(context.Background(), "nobody")
	require.NotNil(t, p)
	assert.False(t, p.HasSignal())
	assert.NotNil(t, p.Genres)
	assert.NotNil(t, p.Actors)
	assert.NotNil(t, p.Directors)
	assert.NotNil(t, p.Languages)
	assert.NotNil(t, p.Countries)
	assert.NotNil(t, p.Years)
}

func TestBadgerStoreCorruptProfileSubstitutesEmpty(t *testing.T) {
	store, db := newTestBadgerStore(t)

	err := db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+"u1"), []byte("{not json"))
	})
	require.NoError(t, err)

	p := store.LoadProfile(context.Background(), "u1")
	require.NotNil(t, p)
	assert.False(t, p.HasSignal(), "corrupt blob is treated as no profile")
}

func TestBadgerStoreProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBadgerStore(t)

	p := NewProfile()
	p.Genres[28] = 4.5
	p.Languages["ko"] = 15
	p.Years[1990] = 1.0
	require.NoError(t, store.SaveProfile(ctx, "u1", p))

	loaded := store.LoadProfile(ctx, "u1")
	assert.InDelta(t, 4.5, loaded.Genres[28], 1e-9)
	assert.InDelta(t, 15, loaded.Languages["ko"], 1e-9)
	assert.InDelta(t, 1.0, loaded.Years[1990], 1e-9)

	// Profiles are isolated per user.
	other := store.LoadProfile(ctx, "u2")
	assert.False(t, other.HasSignal())
}

func TestBadgerStoreClearProfile(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBadgerStore(t)

	p := NewProfile()
	p.Genres[28] = 1
	require.NoError(t, store.SaveProfile(ctx, "u1", p))
	require.NoError(t, store.ClearProfile(ctx, "u1"))

	assert.False(t, store.LoadProfile(ctx, "u1").HasSignal())
}

func TestBadgerStoreNotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBadgerStore(t)

	var notified []string
	store.Subscribe(func(userID string) { notified = append(notified, userID) })

	require.NoError(t, store.SaveProfile(ctx, "u1", NewProfile()))
	require.NoError(t, store.ClearProfile(ctx, "u1"))

	assert.Equal(t, []string{"u1", "u1"}, notified)
}

func TestBadgerStorePreferences(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBadgerStore(t)

	missing, err := store.LoadPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, missing, "never-saved preferences load as nil, not an error")

	prefs := &ExplicitPreferences{
		Genres:    GenrePreferences{Liked: []int{28, 12}, Disliked: []int{27}},
		Languages: []string{"en", "ko"},
	}
	require.NoError(t, store.SavePreferences(ctx, "u1", prefs))

	loaded, err := store.LoadPreferences(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, prefs.Genres.Liked, loaded.Genres.Liked)
	assert.Equal(t, prefs.Genres.Disliked, loaded.Genres.Disliked)
	assert.Equal(t, prefs.Languages, loaded.Languages)

	require.NoError(t, store.DeletePreferences(ctx, "u1"))
	deleted, err := store.LoadPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, deleted)
}
