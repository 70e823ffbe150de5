package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/timing/cache"
)

// recordingBacking serves zeroes and records writebacks.
type recordingBacking struct {
	writes map[uint64][]byte
}

func (r *recordingBacking) Read(addr uint64, size int) []byte {
	return make([]byte, size)
}

func (r *recordingBacking) Write(addr uint64, data []byte) {
	r.writes[addr] = append([]byte(nil), data...)
}

var smallConfig = cache.Config{
	Size:          4 * 1024,
	Associativity: 4,
	BlockSize:     64,
	HitLatency:    1,
	MissLatency:   10,
}

var _ = Describe("Cache", func() {
	var (
		c      *cache.Cache
		memory *emu.Memory
	)

	BeforeEach(func() {
		memory = emu.NewMemorySize(0x2000)
		c = cache.New(smallConfig, cache.NewMemoryBacking(memory))
	})

	Describe("Read operations", func() {
		It("should miss on cold cache", func() {
			Expect(memory.Write64(0x1000, 0xDEADBEEF)).To(Succeed())

			result := c.Read(0x1000, 8)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))
			Expect(result.Data).To(Equal(uint64(0xDEADBEEF)))

			stats := c.Stats()
			Expect(stats.Reads).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(0)))
		})

		It("should hit on cached data", func() {
			Expect(memory.Write64(0x1000, 0xCAFEBABE)).To(Succeed())

			c.Read(0x1000, 8)

			result := c.Read(0x1000, 8)
			Expect(result.Hit).To(BeTrue())
			Expect(result.Latency).To(Equal(uint64(1)))
			Expect(result.Data).To(Equal(uint64(0xCAFEBABE)))
			Expect(c.Stats().HitRate()).To(Equal(0.5))
		})

		It("should hit on different addresses in same cache line", func() {
			Expect(memory.Write32(0x1000, 0x11111111)).To(Succeed())
			Expect(memory.Write32(0x1004, 0x22222222)).To(Succeed())

			c.Read(0x1000, 4)

			result := c.Read(0x1004, 4)
			Expect(result.Hit).To(BeTrue())
			Expect(result.Data).To(Equal(uint64(0x22222222)))
		})

		It("should read zeroes past the end of memory", func() {
			result := c.Read(0x1FFC, 4)
			Expect(result.Data).To(Equal(uint64(0)))

			result = c.Read(0x4000, 8)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Data).To(Equal(uint64(0)))
		})
	})

	Describe("Write operations", func() {
		It("should write-allocate on miss", func() {
			result := c.Write(0x1000, 8, 0x12345678)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))

			readResult := c.Read(0x1000, 8)
			Expect(readResult.Hit).To(BeTrue())
			Expect(readResult.Data).To(Equal(uint64(0x12345678)))
		})

		It("should add forwarding latency to a load after a store", func() {
			c.Write(0x1000, 8, 0x11111111)

			result := c.Read(0x1000, 8)
			Expect(result.Latency).To(Equal(uint64(1) + cache.StoreForwardLatency))

			result = c.Read(0x1000, 8)
			Expect(result.Latency).To(Equal(uint64(1)))
		})

		It("should leave functional memory untouched on writeback", func() {
			Expect(memory.Write64(0x0000, 0xAAAA)).To(Succeed())
			c.Write(0x0000, 8, 0x5555)
			c.Flush()

			Expect(memory.Read64(0x0000)).To(Equal(uint64(0xAAAA)))
		})
	})

	Describe("Line-crossing access", func() {
		It("should touch both lines", func() {
			Expect(memory.Write64(0x103C, 0x8877665544332211)).To(Succeed())

			result := c.Access(0x103C, 8, false, 0)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Data).To(Equal(uint64(0x8877665544332211)))
			Expect(c.Stats().Misses).To(Equal(uint64(2)))

			result = c.Access(0x103C, 8, false, 0)
			Expect(result.Hit).To(BeTrue())
		})

		It("should split stores across lines", func() {
			c.Access(0x007E, 4, true, 0xDDCCBBAA)

			Expect(c.Read(0x007E, 2).Data).To(Equal(uint64(0xBBAA)))
			Expect(c.Read(0x0080, 2).Data).To(Equal(uint64(0xDDCC)))
		})

		It("should not split accesses within a line", func() {
			c.Access(0x1000, 8, false, 0)
			Expect(c.Stats().Reads).To(Equal(uint64(1)))
		})
	})

	Describe("Eviction", func() {
		var backing *recordingBacking

		BeforeEach(func() {
			backing = &recordingBacking{writes: map[uint64][]byte{}}
			c = cache.New(smallConfig, backing)
		})

		It("should evict when a set is full", func() {
			// 16 sets of 4 ways; these addresses all map to set 0.
			c.Write(0x0000, 8, 0x11111111)
			c.Write(0x0400, 8, 0x22222222)
			c.Write(0x0800, 8, 0x33333333)
			c.Write(0x0C00, 8, 0x44444444)

			Expect(c.Read(0x0000, 8).Hit).To(BeTrue())
			Expect(c.Read(0x0C00, 8).Hit).To(BeTrue())

			result := c.Write(0x1000, 8, 0x55555555)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeTrue())
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		})

		It("should write back the least recently used dirty block", func() {
			c.Write(0x0000, 8, 0x11111111)
			c.Write(0x0400, 8, 0x22222222)
			c.Write(0x0800, 8, 0x33333333)
			c.Write(0x0C00, 8, 0x44444444)

			c.Read(0x0400, 8)
			c.Read(0x0800, 8)
			c.Read(0x0C00, 8)

			result := c.Write(0x1000, 8, 0x55555555)
			Expect(result.EvictedAddr).To(Equal(uint64(0x0000)))
			Expect(backing.writes).To(HaveKey(uint64(0x0000)))
			Expect(backing.writes[0x0000][0]).To(Equal(byte(0x11)))
			Expect(c.Stats().Writebacks).To(Equal(uint64(1)))
		})

		It("should write back all dirty blocks on flush", func() {
			c.Write(0x0000, 8, 0x11111111)
			c.Write(0x1000, 8, 0x22222222)
			c.Read(0x2000, 8)

			c.Flush()

			Expect(backing.writes).To(HaveLen(2))
			Expect(c.Stats().Writebacks).To(Equal(uint64(2)))
			Expect(c.Read(0x0000, 8).Hit).To(BeFalse())
		})
	})

	Describe("Invalidate and Reset", func() {
		It("should drop a single line", func() {
			c.Read(0x1000, 8)
			c.Invalidate(0x1010)
			Expect(c.Read(0x1000, 8).Hit).To(BeFalse())
		})

		It("should clear lines and statistics", func() {
			c.Read(0x1000, 8)
			c.Reset()
			Expect(c.Stats()).To(Equal(cache.Statistics{}))
			Expect(c.Read(0x1000, 8).Hit).To(BeFalse())
		})
	})

	Describe("Configuration", func() {
		It("should create L1I config", func() {
			config := cache.DefaultL1IConfig()
			Expect(config.Size).To(Equal(32 * 1024))
			Expect(config.Associativity).To(Equal(4))
			Expect(config.Validate()).To(Succeed())
		})

		It("should create L1D config", func() {
			config := cache.DefaultL1DConfig()
			Expect(config.Associativity).To(Equal(8))
			Expect(config.BlockSize).To(Equal(64))
			Expect(config.Validate()).To(Succeed())
		})

		It("should reject bad geometry", func() {
			Expect(cache.Config{Size: 4096, Associativity: 4, BlockSize: 48}.Validate()).
				To(MatchError(ContainSubstring("power of two")))
			Expect(cache.Config{Size: 1000, Associativity: 4, BlockSize: 64}.Validate()).
				To(HaveOccurred())
			Expect(func() { cache.New(cache.Config{}, nil) }).To(Panic())
		})

		It("should report zero hit rate before any access", func() {
			Expect(c.Stats().HitRate()).To(Equal(0.0))
		})
	})
})
