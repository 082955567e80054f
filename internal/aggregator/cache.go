package aggregator

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is the revalidation window for cached aggregation results.
const DefaultTTL = 600 * time.Second

// Cache is the process-level revalidation cache: it holds the most
// recent aggregation result and re-runs the pipeline inline when a
// request arrives after the TTL has elapsed. Concurrent misses are
// serialized under the lock so only one of them refetches.
type Cache struct {
	agg *Aggregator
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	result    *Result
	refreshed time.Time
}

// NewCache wraps an aggregator with a revalidation window.
func NewCache(agg *Aggregator, ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{agg: agg, ttl: ttl, now: now}
}

// Get returns the cached result when it is still fresh, otherwise runs a
// new aggregation pass. A failed refresh leaves no cached value behind,
// so the next request retries.
func (c *Cache) Get(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result != nil && c.now().Sub(c.refreshed) < c.ttl {
		return c.result, nil
	}

	result, err := c.agg.Aggregate(ctx)
	if err != nil {
		c.result = nil
		return nil, err
	}

	c.result = result
	c.refreshed = c.now()
	return result, nil
}

// Invalidate drops the cached result so the next request refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.result = nil
	c.mu.Unlock()
}
