package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sydlexius/retune/internal/similarity"
)

// Cache is a process-lifetime memo of catalog lookups, keyed on the
// normalized query text or entity id. Entries are append-only and never
// mutated after insertion.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Lookup returns the cached value for key, or ok=false on a miss.
func (c *Cache) Lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Record stores value under key. First write wins; a concurrent duplicate
// insert of the same key is harmless because entries are immutable.
func (c *Cache) Record(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = value
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Key builds a cache key from an operation name and its arguments,
// normalizing each part (lower-cased, whitespace-collapsed).
func Key(op string, parts ...string) string {
	b := make([]string, 0, len(parts)+1)
	b = append(b, op)
	for _, p := range parts {
		b = append(b, similarity.Normalize(p))
	}
	return strings.Join(b, "\x00")
}

// Throttle enforces a minimum interval between outbound catalog calls.
// The limiter owns the only mutable shared state (its internal clock), so
// request preparation may run concurrently while dispatch stays serialized.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a Throttle with the given minimum inter-call
// interval. A non-positive interval disables throttling.
func NewThrottle(minInterval time.Duration) *Throttle {
	if minInterval <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the next call is permitted or ctx is canceled.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
