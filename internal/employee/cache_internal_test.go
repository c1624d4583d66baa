package employee

import (
	"time"

	"github.com/frahmantamala/hr-records/pkg/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ListCache", func() {
	var (
		cache     *ListCache
		clock     time.Time
		collector *metrics.Collector
	)

	BeforeEach(func() {
		clock = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
		collector = metrics.New()
		cache = NewListCache(time.Minute, collector)
		cache.now = func() time.Time { return clock }
	})

	It("misses when empty", func() {
		_, _, ok := cache.Get()
		Expect(ok).To(BeFalse())
		Expect(collector.Snapshot()["employeeCacheMisses"]).To(BeEquivalentTo(1))
	})

	It("hits until the TTL runs out", func() {
		Expect(cache.Put([]*Employee{{ID: 1}}, 0)).To(BeTrue())

		records, _, ok := cache.Get()
		Expect(ok).To(BeTrue())
		Expect(records).To(HaveLen(1))

		clock = clock.Add(time.Minute)
		_, _, ok = cache.Get()
		Expect(ok).To(BeFalse())

		snapshot := collector.Snapshot()
		Expect(snapshot["employeeCacheHits"]).To(BeEquivalentTo(1))
		Expect(snapshot["employeeCacheMisses"]).To(BeEquivalentTo(1))
	})

	It("drops the entry on invalidate", func() {
		cache.Put([]*Employee{{ID: 1}}, 0)
		cache.Invalidate()

		_, _, ok := cache.Get()
		Expect(ok).To(BeFalse())
	})

	It("refuses a fill that started before an invalidation", func() {
		// Given a load that missed at the current generation
		_, gen, ok := cache.Get()
		Expect(ok).To(BeFalse())

		// When an update invalidates before the load finishes
		cache.Invalidate()

		// Then the stale load is not stored
		Expect(cache.Put([]*Employee{{ID: 1, Phone: "old"}}, gen)).To(BeFalse())
		_, next, ok := cache.Get()
		Expect(ok).To(BeFalse())
		Expect(next).To(Equal(gen + 1))

		// And a load at the new generation is
		Expect(cache.Put([]*Employee{{ID: 1, Phone: "new"}}, next)).To(BeTrue())
		records, _, ok := cache.Get()
		Expect(ok).To(BeTrue())
		Expect(records[0].Phone).To(Equal("new"))
	})

	It("caches nothing with a zero TTL", func() {
		disabled := NewListCache(0, nil)
		Expect(disabled.Put([]*Employee{{ID: 1}}, 0)).To(BeFalse())

		_, _, ok := disabled.Get()
		Expect(ok).To(BeFalse())
	})

	It("is safe on a nil cache", func() {
		var nilCache *ListCache
		nilCache.Put(nil, 0)
		nilCache.Invalidate()
		_, _, ok := nilCache.Get()
		Expect(ok).To(BeFalse())
	})
})
