// Package cache provides caption caches keyed by shortcode. Only confirmed
// extraction successes are stored, so transient failures never poison
// future attempts.
package cache

import (
	"time"

	"recipegram/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process cache bounded two ways: least-recently-used
// eviction past maxEntries, and an absolute per-entry TTL, whichever
// triggers first.
type MemoryCache struct {
	lru *expirable.LRU[string, *domain.CachedCaption]
}

// NewMemoryCache creates a cache holding at most maxEntries captions for at
// most ttl each.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, *domain.CachedCaption](maxEntries, nil, ttl),
	}
}

// Get retrieves the cached caption for a shortcode, if present and fresh.
func (c *MemoryCache) Get(shortcode string) (*domain.CachedCaption, bool) {
	return c.lru.Get(shortcode)
}

// Set stores a caption. Writes are idempotent per shortcode; a concurrent
// double-write of the same extraction is a benign race.
func (c *MemoryCache) Set(shortcode string, entry *domain.CachedCaption) {
	c.lru.Add(shortcode, entry)
}

// Len reports the current number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
