// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package tmdb

import (
	"context"
	"time"

	"github.com/cinehub/cinehub/internal/cache"
	"github.com/cinehub/cinehub/internal/media"
)

// Catalog cache TTLs. Genre, language and country lists change on the
// order of months; trending churns daily.
const (
	catalogTTL  = 24 * time.Hour
	trendingTTL = 15 * time.Minute
)

// CatalogSource is the slice of the client the cached catalog wraps.
type CatalogSource interface {
	GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error)
	GetLanguages(ctx context.Context) ([]Language, error)
	GetCountries(ctx context.Context) ([]Country, error)
	GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error)
}

// CachedCatalog memoizes catalog lookups in front of the circuit-broken
// client. Errors are never cached.
type CachedCatalog struct {
	source CatalogSource
	cache  *cache.Cache
}

// NewCachedCatalog wraps a catalog source with an in-memory cache.
func NewCachedCatalog(source CatalogSource) *CachedCatalog {
	return &CachedCatalog{source: source, cache: cache.New(catalogTTL)}
}

// Stop releases the cache's background resources.
func (c *CachedCatalog) Stop() {
	c.cache.Stop()
}

// GetGenres returns the genre list for a media type, cached for a day.
func (c *CachedCatalog) GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error) {
	key := cache.GenerateKey("genres", mediaType)
	if v, ok := c.cache.Get(key); ok {
		return v.([]media.Genre), nil
	}
	genres, err := c.source.GetGenres(ctx, mediaType)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, genres)
	return genres, nil
}

// GetLanguages returns the language catalog, cached for a day.
func (c *CachedCatalog) GetLanguages(ctx context.Context) ([]Language, error) {
	key := cache.GenerateKey("languages")
	if v, ok := c.cache.Get(key); ok {
		return v.([]Language), nil
	}
	languages, err := c.source.GetLanguages(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, languages)
	return languages, nil
}

// GetCountries returns the country catalog, cached for a day.
func (c *CachedCatalog) GetCountries(ctx context.Context) ([]Country, error) {
	key := cache.GenerateKey("countries")
	if v, ok := c.cache.Get(key); ok {
		return v.([]Country), nil
	}
	countries, err := c.source.GetCountries(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, countries)
	return countries, nil
}

// GetTrending returns a trending page, cached briefly per media type,
// window and page.
func (c *CachedCatalog) GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error) {
	key := cache.GenerateKey("trending", mediaType, window, page)
	if v, ok := c.cache.Get(key); ok {
		return v.(*media.DiscoverPage), nil
	}
	trending, err := c.source.GetTrending(ctx, mediaType, window, page)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(key, trending, trendingTTL)
	return trending, nil
}
