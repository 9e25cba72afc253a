package rates

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL matches the 24-hour freshness window rates are typically
// published under.
const DefaultTTL = 24 * time.Hour

// Cache is a TTL cache in front of another provider, per base currency.
// When the inner provider fails, an expired entry is served rather than
// the error (stale-on-error); the error only surfaces when there is
// nothing cached at all.
type Cache struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]*Table
}

// NewCache wraps a provider. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(inner Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Table),
	}
}

func (c *Cache) Rates(ctx context.Context, base string) (*Table, error) {
	c.mu.RLock()
	cached := c.entries[base]
	c.mu.RUnlock()

	if cached != nil && c.now().Sub(cached.FetchedAt) < c.ttl {
		return cached, nil
	}

	fresh, err := c.inner.Rates(ctx, base)
	if err != nil {
		if cached != nil {
			return cached, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[base] = fresh
	c.mu.Unlock()
	return fresh, nil
}
