// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file and environment variables, in that order of
// precedence (env highest). Immutable after Load and safe for concurrent
// reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
}

// TMDBConfig holds the upstream metadata API settings.
//
// Environment Variables:
//   - CINEHUB_TMDB_API_KEY: API key (required)
//   - CINEHUB_TMDB_BASE_URL: API base URL
type TMDBConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	APIKey            string        `koanf:"api_key" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" validate:"min=1s"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	RateBurst         int           `koanf:"rate_burst" validate:"min=1"`
	MaxRetries        int           `koanf:"max_retries" validate:"min=0"`
}

// StoreConfig holds the embedded key-value store settings.
type StoreConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	GCInterval     time.Duration `koanf:"gc_interval" validate:"min=1m"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio" validate:"gt=0,lt=1"`
}

// RecommendConfig holds the recommendation assembler tunables. Mirrors
// the engine's own config so the wiring layer can map it across without
// this package importing the engine.
type RecommendConfig struct {
	DefaultPageSize   int     `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize       int     `koanf:"max_page_size" validate:"min=1"`
	PagesPerRequest   int     `koanf:"pages_per_request" validate:"min=1"`
	PromisingFactor   float64 `koanf:"promising_factor" validate:"gte=1"`
	MaxDiscoverPages  int     `koanf:"max_discover_pages" validate:"min=1"`
	DetailConcurrency int     `koanf:"detail_concurrency" validate:"min=1"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with production defaults. The TMDB API
// key has no default and must come from the config file or environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			APIKey:            "",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 40,
			RateBurst:         10,
			MaxRetries:        5,
		},
		Store: StoreConfig{
			Path:           "/data/cinehub",
			InMemory:       false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Recommend: RecommendConfig{
			DefaultPageSize:   20,
			MaxPageSize:       50,
			PagesPerRequest:   2,
			PromisingFactor:   2.5,
			MaxDiscoverPages:  500,
			DetailConcurrency: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("invalid configuration: store.path is required unless store.in_memory is set")
	}
	return nil
}
