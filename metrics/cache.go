package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/ByLCY/marklabel/layout"
)

type cacheKey struct {
	text string
	font layout.Font
}

type cacheEntry struct {
	m   layout.Metrics
	err error
}

// Cache memoizes another provider. Results, including missing-glyph errors,
// are stored per (text, font); the wrapped provider must be deterministic.
type Cache struct {
	next layout.MetricsProvider

	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry

	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ layout.MetricsProvider = (*Cache)(nil)

// NewCache wraps next with a concurrency-safe memo table.
func NewCache(next layout.MetricsProvider) *Cache {
	return &Cache{next: next, entries: map[cacheKey]cacheEntry{}}
}

func (c *Cache) Measure(text string, f layout.Font) (layout.Metrics, error) {
	key := cacheKey{text: text, font: f}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return e.m, e.err
	}
	c.misses.Add(1)
	m, err := c.next.Measure(text, f)
	c.mu.Lock()
	c.entries[key] = cacheEntry{m: m, err: err}
	c.mu.Unlock()
	return m, err
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
