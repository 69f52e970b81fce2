// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package cache provides a thread-safe in-memory cache with TTL
// expiration, used to keep slow-changing catalog lookups off the
// metadata API.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 5 * time.Minute

// entry is one cached item with its expiration deadline.
type entry struct {
	data      interface{}
	expiresAt time.Time
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
}

// Cache is a thread-safe in-memory cache with per-entry TTL.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	statsMu   sync.Mutex
	hits      int64
	misses    int64
	evictions int64

	stop chan struct{}
	once sync.Once
}

// New creates a cache whose entries expire after ttl by default. A
// background sweep removes expired entries every few minutes; call Stop
// when the cache is no longer needed.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key, or false when absent or
// expired. Expired entries are removed on access.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.count(&c.misses)
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.count(&c.misses)
		c.count(&c.evictions)
		return nil, false
	}

	c.count(&c.hits)
	return e.data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, data interface{}) {
	c.SetWithTTL(key, data, c.ttl)
}

// SetWithTTL stores a value with an explicit TTL.
func (c *Cache) SetWithTTL(key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.statsMu.Lock()
	s := Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
	c.statsMu.Unlock()

	c.mu.RLock()
	s.Keys = len(c.entries)
	c.mu.RUnlock()
	return s
}

// Stop terminates the background sweep goroutine.
func (c *Cache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) count(field *int64) {
	c.statsMu.Lock()
	*field++
	c.statsMu.Unlock()
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes every expired entry.
func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	removed := int64(0)
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.statsMu.Lock()
		c.evictions += removed
		c.statsMu.Unlock()
	}
}

// GenerateKey builds a deterministic cache key from arbitrary parts.
// Parts are JSON-encoded and hashed so callers never have to worry
// about separators or key length.
func GenerateKey(parts ...interface{}) string {
	encoded, err := json.Marshal(parts)
	if err != nil {
		encoded = []byte(fmt.Sprint(parts...))
	}
	return fmt.Sprintf("%x", sha256.Sum256(encoded))
}
