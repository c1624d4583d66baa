package employee

import (
	"sync"
	"time"

	"github.com/frahmantamala/hr-records/pkg/metrics"
)

// ListCache holds the raw employee list for a fixed TTL. Projection happens
// after the cache, per caller, so one entry serves every role.
type ListCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	records []*Employee
	expires time.Time
	// gen counts invalidations. A fill computed before the latest
	// invalidation is discarded by Put.
	gen     uint64
	now     func() time.Time
	metrics *metrics.Collector
}

// NewListCache returns a cache with the given TTL. A zero TTL disables
// caching.
func NewListCache(ttl time.Duration, collector *metrics.Collector) *ListCache {
	return &ListCache{ttl: ttl, now: time.Now, metrics: collector}
}

// Get returns the cached list. On a miss it also returns the generation to
// hand back to Put with the freshly loaded list.
func (c *ListCache) Get() ([]*Employee, uint64, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.records == nil || !c.now().Before(c.expires) {
		c.metrics.CacheMiss()
		return nil, c.gen, false
	}
	c.metrics.CacheHit()
	return c.records, c.gen, true
}

// Put stores records loaded after a miss at gen. It is a no-op when the
// cache was invalidated since, so a slow load cannot bring back stale rows.
func (c *ListCache) Put(records []*Employee, gen uint64) bool {
	if c == nil || c.ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.records = records
	c.expires = c.now().Add(c.ttl)
	return true
}

func (c *ListCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.records = nil
	c.expires = time.Time{}
}
