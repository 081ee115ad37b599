package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"
)

// entry holds a cached value with its creation timestamp.
type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache is an in-memory TTL cache, safe for concurrent use. The same
// implementation backs cleaned-response caching (age checked per lookup via
// the caller's max-age) and embedding caching (fixed TTL).
type Cache[V any] struct {
	mu         sync.RWMutex
	store      map[string]entry[V]
	maxEntries int
	defaultTTL time.Duration
}

// New creates a Cache holding at most maxEntries values. Entries older than
// defaultTTL are evicted by a background sweep every 5 minutes.
func New[V any](maxEntries int, defaultTTL time.Duration) *Cache[V] {
	c := &Cache[V]{
		store:      make(map[string]entry[V]),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
	}
	go c.cleanupLoop()
	return c
}

// ResponseKey derives the cache key for a clean request from everything
// that changes its output.
func ResponseKey(url, outputMode string, maxWords int, frontmatter bool, selectors ...string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(outputMode))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.Itoa(maxWords)))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.FormatBool(frontmatter)))
	for _, s := range selectors {
		h.Write([]byte("|"))
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TextKey derives the cache key for a text-addressed value such as an
// embedding vector.
func TextKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte("|"))
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached value younger than maxAge. A maxAge <= 0 disables
// the lookup, letting callers opt out per request.
func (c *Cache[V]) Get(key string, maxAge time.Duration) (V, bool) {
	var zero V
	if maxAge <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > maxAge {
		return zero, false
	}
	return e.value, true
}

// GetDefault retrieves a cached value using the cache's default TTL.
func (c *Cache[V]) GetDefault(key string) (V, bool) {
	return c.Get(key, c.defaultTTL)
}

// Set stores a value. At capacity one arbitrary entry is evicted to make
// room (map iteration order is random in Go).
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[key] = entry[V]{value: value, createdAt: time.Now()}
}

// Len reports the current entry count.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *Cache[V]) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.defaultTTL)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
