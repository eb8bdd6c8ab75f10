package analysis

import (
	"sync"
	"time"
)

// DefaultFreshness is how long a computed payload is reused before a
// recomputation is forced.
const DefaultFreshness = 5 * time.Minute

// Cache holds the most recent AnalysisPayload for a fixed freshness window.
// Payloads are replaced wholesale, never mutated in place. A payload only
// serves requests for the window it was computed over.
type Cache struct {
	mu          sync.Mutex
	ttl         time.Duration
	payload     *AnalysisPayload
	windowStart time.Time
	storedAt    time.Time
}

// NewCache creates a cache with the given freshness window; ttl <= 0 uses
// DefaultFreshness.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &Cache{ttl: ttl}
}

// Get returns the cached payload if it was computed over the same window
// start and is still fresh at now.
func (c *Cache) Get(windowStart, now time.Time) (*AnalysisPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil || !c.windowStart.Equal(windowStart) || now.Sub(c.storedAt) >= c.ttl {
		return nil, false
	}
	return c.payload, true
}

// Put stores a freshly computed payload for the given window start.
func (c *Cache) Put(payload *AnalysisPayload, windowStart, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = payload
	c.windowStart = windowStart
	c.storedAt = now
}
