// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package recommend

import "fmt"

// Config contains the operational parameters of the recommendation
// assembler.
type Config struct {
	// DefaultPageSize is the number of recommendations returned when the
	// request does not specify one.
	DefaultPageSize int `json:"default_page_size" koanf:"default_page_size"`

	// MaxPageSize caps the requestable page size.
	MaxPageSize int `json:"max_page_size" koanf:"max_page_size"`

	// PagesPerRequest is how many consecutive discovery pages feed one
	// page of recommendations.
	PagesPerRequest int `json:"pages_per_request" koanf:"pages_per_request"`

	// PromisingFactor scales the page size into the number of pass-1
	// survivors that get a detail fetch. Bounds the expensive pass.
	PromisingFactor float64 `json:"promising_factor" koanf:"promising_factor"`

	// MaxDiscoverPages caps the total-pages value reported by the
	// discovery API, bounding pagination math for very broad profiles.
	MaxDiscoverPages int `json:"max_discover_pages" koanf:"max_discover_pages"`

	// DetailConcurrency bounds the concurrent detail fetches in pass 2.
	DetailConcurrency int `json:"detail_concurrency" koanf:"detail_concurrency"`
}

// DefaultConfig returns the production defaults. PagesPerRequest and
// PromisingFactor interact with the scoring funnel and the reported page
// count; change them only with the pagination math in mind.
func DefaultConfig() *Config {
	return &Config{
		DefaultPageSize:   20,
		MaxPageSize:       50,
		PagesPerRequest:   2,
		PromisingFactor:   2.5,
		MaxDiscoverPages:  500,
		DetailConcurrency: 8,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max_page_size %d must be >= default_page_size %d", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.PagesPerRequest <= 0 {
		return fmt.Errorf("pages_per_request must be positive, got %d", c.PagesPerRequest)
	}
	if c.PromisingFactor < 1 {
		return fmt.Errorf("promising_factor must be >= 1, got %g", c.PromisingFactor)
	}
	if c.MaxDiscoverPages <= 0 {
		return fmt.Errorf("max_discover_pages must be positive, got %d", c.MaxDiscoverPages)
	}
	if c.DetailConcurrency <= 0 {
		return fmt.Errorf("detail_concurrency must be positive, got %d", c.DetailConcurrency)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
