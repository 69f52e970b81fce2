// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package tmdb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/metrics"
)

// CircuitBreakerClient wraps Client with the circuit breaker pattern so
// an unavailable or slow upstream fails fast instead of stacking up
// timed-out requests.
//
// The breaker uses real time for its interval and timeout calculations;
// tests should mock the underlying client rather than the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

// NewCircuitBreakerClient wraps a client with breaker protection:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client *Client, logger zerolog.Logger) *CircuitBreakerClient {
	cbName := "tmdb-api"
	log := logger.With().Str("component", "tmdb-breaker").Logger()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				log.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: cbName, logger: log}
}

func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	return cbc.cb.Execute(fn)
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GetMediaDetails fetches full item details with breaker protection.
func (cbc *CircuitBreakerClient) GetMediaDetails(ctx context.Context, mediaType media.Type, id int) (*media.Details, error) {
	return castResult[media.Details](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetMediaDetails(ctx, mediaType, id)
	}))
}

// DiscoverMedia runs a discovery query with breaker protection.
func (cbc *CircuitBreakerClient) DiscoverMedia(ctx context.Context, mediaType media.Type, filters map[string]string, page int) (*media.DiscoverPage, error) {
	return castResult[media.DiscoverPage](cbc.execute(func() (interface{}, error) {
		return cbc.client.DiscoverMedia(ctx, mediaType, filters, page)
	}))
}

// GetTrending fetches the trending list with breaker protection.
func (cbc *CircuitBreakerClient) GetTrending(ctx context.Context, mediaType media.Type, window string, page int) (*media.DiscoverPage, error) {
	return castResult[media.DiscoverPage](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetTrending(ctx, mediaType, window, page)
	}))
}

// GetGenres fetches the genre list with breaker protection.
func (cbc *CircuitBreakerClient) GetGenres(ctx context.Context, mediaType media.Type) ([]media.Genre, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetGenres(ctx, mediaType)
	})
	if err != nil {
		return nil, err
	}
	genres, ok := result.([]media.Genre)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return genres, nil
}

// GetLanguages fetches the language list with breaker protection.
func (cbc *CircuitBreakerClient) GetLanguages(ctx context.Context) ([]Language, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetLanguages(ctx)
	})
	if err != nil {
		return nil, err
	}
	languages, ok := result.([]Language)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return languages, nil
}

// GetCountries fetches the country list with breaker protection.
func (cbc *CircuitBreakerClient) GetCountries(ctx context.Context) ([]Country, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetCountries(ctx)
	})
	if err != nil {
		return nil, err
	}
	countries, ok := result.([]Country)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return countries, nil
}
