// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package tmdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/cinehub/internal/media"
)

type countingSource struct {
	genreCalls    int
	trendingCalls int
	err           error
}

func (s *countingSource) GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error) {
	s.genreCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []media.Genre{{ID: 28, Name: "Action"}}, nil
}

func (s *countingSource) GetLanguages(ctx context.Context) ([]Language, error) {
	return []Language{{ISO639: "en", EnglishName: "English"}}, s.err
}

func (s *countingSource) GetCountries(ctx context.Context) ([]Country, error) {
	return []Country{{ISO3166: "US"}}, s.err
}

func (s *countingSource) GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error) {
	s.trendingCalls++
	if s.err != nil {
		return nil, s.err
	}
	return &media.DiscoverPage{Page: page, TotalPages: 5}, nil
}

func TestCachedCatalogMemoizesGenres(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	cat := NewCachedCatalog(src)
	t.Cleanup(cat.Stop)

	first, err := cat.GetGenres(ctx, media.TypeMovie)
	require.NoError(t, err)
	second, err := cat.GetGenres(ctx, media.TypeMovie)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.genreCalls)

	// A different media type is a different key.
	_, err = cat.GetGenres(ctx, media.TypeTV)
	require.NoError(t, err)
	assert.Equal(t, 2, src.genreCalls)
}

func TestCachedCatalogDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{err: errors.New("upstream down")}
	cat := NewCachedCatalog(src)
	t.Cleanup(cat.Stop)

	_, err := cat.GetGenres(ctx, media.TypeMovie)
	require.Error(t, err)

	src.err = nil
	genres, err := cat.GetGenres(ctx, media.TypeMovie)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
	assert.Equal(t, 2, src.genreCalls)
}

func TestCachedCatalogTrendingKeyedByPage(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	cat := NewCachedCatalog(src)
	t.Cleanup(cat.Stop)

	_, err := cat.GetTrending(ctx, media.TypeMovie, "week", 1)
	require.NoError(t, err)
	_, err = cat.GetTrending(ctx, media.TypeMovie, "week", 1)
	require.NoError(t, err)
	_, err = cat.GetTrending(ctx, media.TypeMovie, "week", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, src.trendingCalls)
}
