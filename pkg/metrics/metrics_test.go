package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-records/pkg/metrics"
)

var _ = Describe("Collector", func() {
	It("counts requests by status class", func() {
		c := metrics.New()
		c.Record(200, 10*time.Millisecond)
		c.Record(404, 20*time.Millisecond)
		c.Record(500, 30*time.Millisecond)

		snap := c.Snapshot()
		Expect(snap["requestsTotal"]).To(Equal(uint64(3)))
		Expect(snap["clientErrorsTotal"]).To(Equal(uint64(1)))
		Expect(snap["serverErrorsTotal"]).To(Equal(uint64(1)))
		Expect(snap["totalDurationMs"]).To(Equal(uint64(60)))
		Expect(snap["avgDurationMs"]).To(Equal(float64(20)))
	})

	It("counts cache and enhancer activity", func() {
		c := metrics.New()
		c.CacheHit()
		c.CacheHit()
		c.CacheMiss()
		c.EnhancerCall()
		c.EnhancerFallback()

		snap := c.Snapshot()
		Expect(snap["employeeCacheHits"]).To(Equal(uint64(2)))
		Expect(snap["employeeCacheMisses"]).To(Equal(uint64(1)))
		Expect(snap["textEnhancerCalls"]).To(Equal(uint64(1)))
		Expect(snap["textEnhancerFallbacks"]).To(Equal(uint64(1)))
	})

	It("is safe to use through a nil pointer", func() {
		var c *metrics.Collector
		Expect(func() {
			c.Record(200, time.Millisecond)
			c.CacheHit()
			c.CacheMiss()
			c.EnhancerCall()
			c.EnhancerFallback()
		}).NotTo(Panic())
		Expect(c.Snapshot()).To(BeEmpty())
	})
})
