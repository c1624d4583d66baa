package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide counters. A nil *Collector is valid and
// records nothing.
type Collector struct {
	totalRequests    uint64
	clientErrors     uint64
	serverErrors     uint64
	totalDurationMs  uint64
	cacheHits        uint64
	cacheMisses      uint64
	enhancerCalls    uint64
	enhancerFallback uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.serverErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.cacheHits, 1)
}

func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.cacheMisses, 1)
}

func (c *Collector) EnhancerCall() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.enhancerCalls, 1)
}

func (c *Collector) EnhancerFallback() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.enhancerFallback, 1)
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"clientErrorsTotal":     atomic.LoadUint64(&c.clientErrors),
		"serverErrorsTotal":     atomic.LoadUint64(&c.serverErrors),
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"employeeCacheHits":     atomic.LoadUint64(&c.cacheHits),
		"employeeCacheMisses":   atomic.LoadUint64(&c.cacheMisses),
		"textEnhancerCalls":     atomic.LoadUint64(&c.enhancerCalls),
		"textEnhancerFallbacks": atomic.LoadUint64(&c.enhancerFallback),
	}
}
