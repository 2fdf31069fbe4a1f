// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// cleanupInterval is how often the background sweep removes expired
// entries that were never read again.
const cleanupInterval = 5 * time.Minute

type entry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a named in-memory cache with per-entry expiration. The name
// becomes the cache_type label on its metrics.
type Cache struct {
	name string
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose entries expire after ttl and starts the
// background cleanup sweep. Call Close when the cache is retired.
func New(name string, ttl time.Duration) *Cache {
	c := &Cache{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key. An expired entry is removed
// and reported as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		size := len(c.entries)
		c.mu.Unlock()

		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.data, true
}

// Set stores value under key with the cache's default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL, overwriting any
// existing entry.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Delete removes a single entry. Safe to call for a missing key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
	}
}

// Clear drops every entry. The refresh-completion callback calls this
// so responses scored from replaced artifacts stop being served.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(evicted))
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background cleanup sweep.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	evicted := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if evicted > 0 {
		metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(evicted))
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// GenerateKey builds a deterministic cache key from a method name and
// its parameters. Parameters are JSON-encoded and hashed so composite
// request shapes collapse to a compact key.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
