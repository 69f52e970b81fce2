// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cinehub/cinehub/internal/config"
	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/metrics"
)

// Language is an original-language entry from the configuration API.
type Language struct {
	ISO639      string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name,omitempty"`
}

// Country is a country entry from the configuration API.
type Country struct {
	ISO3166     string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
}

type genreListResponse struct {
	Genres []media.Genre `json:"genres"`
}

// Client is the base metadata API client. It authenticates with an API
// key, throttles itself below the upstream request budget and retries
// rate-limited responses with exponential backoff.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     zerolog.Logger
}

// NewClient creates a metadata API client from configuration.
func NewClient(cfg *config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RateBurst),
		maxRetries: cfg.MaxRetries,
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
}

// GetMediaDetails fetches the full payload for one item with credits
// appended, saving the separate credits round trip.
func (c *Client) GetMediaDetails(ctx context.Context, mediaType media.Type, id int) (*media.Details, error) {
	query := url.Values{"append_to_response": {"credits"}}
	var details media.Details
	if err := c.get(ctx, "details", fmt.Sprintf("/%s/%d", mediaType, id), query, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// DiscoverMedia runs a paginated discovery query. filters is a flat
// mapping of query-parameter name to value (with_genres, sort_by, ...).
func (c *Client) DiscoverMedia(ctx context.Context, mediaType media.Type, filters map[string]string, page int) (*media.DiscoverPage, error) {
	query := url.Values{"page": {strconv.Itoa(page)}}
	for name, value := range filters {
		query.Set(name, value)
	}
	var result media.DiscoverPage
	if err := c.get(ctx, "discover", "/discover/"+string(mediaType), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTrending fetches the trending list for a media type. window is
// "day" or "week".
func (c *Client) GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error) {
	query := url.Values{"page": {strconv.Itoa(page)}}
	var result media.DiscoverPage
	if err := c.get(ctx, "trending", fmt.Sprintf("/trending/%s/%s", mediaType, window), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetGenres fetches the canonical genre list for a media type.
func (c *Client) GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error) {
	var result genreListResponse
	if err := c.get(ctx, "genres", fmt.Sprintf("/genre/%s/list", mediaType), nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// GetLanguages fetches the supported original languages.
func (c *Client) GetLanguages(ctx context.Context) ([]Language, error) {
	var result []Language
	if err := c.get(ctx, "languages", "/configuration/languages", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCountries fetches the supported countries.
func (c *Client) GetCountries(ctx context.Context) ([]Country, error) {
	var result []Country
	if err := c.get(ctx, "countries", "/configuration/countries", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// get performs one authenticated GET with rate limiting, 429 retry and
// JSON decoding into out.
func (c *Client) get(ctx context.Context, operation, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	requestURL := c.baseURL + path + "?" + query.Encode()

	resp, err := c.doWithRateLimit(ctx, operation, requestURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb %s: unexpected status %d: %s", operation, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb %s: decode response: %w", operation, err)
	}
	return nil
}

// doWithRateLimit executes the request with automatic retry on HTTP 429.
// Exponential backoff: 1s, 2s, 4s, 8s, 16s; a Retry-After header (RFC
// 6585) overrides the computed delay.
func (c *Client) doWithRateLimit(ctx context.Context, operation, requestURL string) (*http.Response, error) {
	baseDelay := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("tmdb %s: rate limiter: %w", operation, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("tmdb %s: build request: %w", operation, err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordTMDBRequest(operation, 0, time.Since(start))
			return nil, fmt.Errorf("tmdb %s: execute request: %w", operation, err)
		}
		metrics.RecordTMDBRequest(operation, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()
		if attempt == c.maxRetries {
			return nil, fmt.Errorf("tmdb %s: rate limit exceeded after %d retries", operation, c.maxRetries)
		}

		retryDelay := baseDelay * (1 << attempt)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				retryDelay = seconds
			}
		}

		metrics.TMDBRetries.Inc()
		c.logger.Warn().Dur("retry_delay", retryDelay).Int("attempt", attempt+1).Int("max_retries", c.maxRetries).Msg("rate limited by upstream, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("tmdb %s: retry loop exhausted", operation)
}
