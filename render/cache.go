// ABOUTME: In-memory render cache wrapping a DOT rendering function with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual clearing; errors are never cached.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// RenderFunc is the signature of the rendering function the cache wraps.
type RenderFunc func(ctx context.Context, dotText string, layout Layout, format string) ([]byte, error)

// cacheEntry holds a single cached render result with its creation timestamp.
type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// Cache wraps a rendering function with an in-memory cache. Keys derive from
// the sha256 of the DOT content combined with layout and format, so the same
// graph rendered two ways occupies two entries.
type Cache struct {
	renderFn RenderFunc
	ttl      time.Duration
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewCache creates a Cache wrapping the given rendering function.
// Entries expire after the specified TTL.
func NewCache(renderFn RenderFunc, ttl time.Duration) *Cache {
	return &Cache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render renders DOT text, returning cached results when available and fresh.
func (c *Cache) Render(ctx context.Context, dotText string, layout Layout, format string) ([]byte, error) {
	key := cacheKey(dotText, layout, format)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if time.Since(entry.createdAt) < c.ttl {
			data := entry.data
			c.mu.RUnlock()
			return data, nil
		}
	}
	c.mu.RUnlock()

	data, err := c.renderFn(ctx, dotText, layout, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		data:      data,
		createdAt: time.Now(),
	}
	c.mu.Unlock()

	return data, nil
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// cacheKey generates a deterministic key from DOT content, layout, and format.
func cacheKey(dotText string, layout Layout, format string) string {
	return fmt.Sprintf("%x:%s:%s", sha256.Sum256([]byte(dotText)), layout, format)
}
