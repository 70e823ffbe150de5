// Package core provides a timing model for a single-issue in-order RV64I
// core. The model observes the functional emulator and charges cycles for
// execution latency, cache misses and branch mispredictions.
package core

import (
	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/insts"
	"github.com/sarchlab/rv64sim/timing/cache"
	"github.com/sarchlab/rv64sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of cycles lost to cache misses and
	// mispredictions.
	Stalls uint64
	// Mispredictions counts branches and jumps whose direction or target
	// was predicted wrongly.
	Mispredictions uint64
}

// CPI returns cycles per instruction, or 0 before any instruction retires.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Option is a functional option for configuring the Core.
type Option func(*options)

type options struct {
	timing    *latency.TimingConfig
	l1i       cache.Config
	l1d       cache.Config
	noICache  bool
	noDCache  bool
	predictor PredictorConfig
}

// WithTimingConfig sets the latency configuration. The L1 hit and miss
// latencies in the configuration override those of the cache geometries.
func WithTimingConfig(config *latency.TimingConfig) Option {
	return func(o *options) {
		o.timing = config
	}
}

// WithICacheConfig sets the L1 instruction cache geometry.
func WithICacheConfig(config cache.Config) Option {
	return func(o *options) {
		o.l1i = config
	}
}

// WithDCacheConfig sets the L1 data cache geometry.
func WithDCacheConfig(config cache.Config) Option {
	return func(o *options) {
		o.l1d = config
	}
}

// WithoutICache models a perfect instruction fetch.
func WithoutICache() Option {
	return func(o *options) {
		o.noICache = true
	}
}

// WithoutDCache models every data access as an L1 hit.
func WithoutDCache() Option {
	return func(o *options) {
		o.noDCache = true
	}
}

// WithPredictorConfig sets the branch predictor sizes.
func WithPredictorConfig(config PredictorConfig) Option {
	return func(o *options) {
		o.predictor = config
	}
}

// Core is a timing model driven by emulator events. Register it with
// emu.WithInstrumentation.
type Core struct {
	table     *latency.Table
	icache    *cache.Cache
	dcache    *cache.Cache
	predictor *BranchPredictor

	stats Stats
}

// NewCore creates a Core whose caches are filled from memory.
func NewCore(memory *emu.Memory, opts ...Option) *Core {
	o := &options{
		timing:    latency.DefaultTimingConfig(),
		l1i:       cache.DefaultL1IConfig(),
		l1d:       cache.DefaultL1DConfig(),
		predictor: DefaultPredictorConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Core{
		table:     latency.NewTableWithConfig(o.timing),
		predictor: NewBranchPredictor(o.predictor),
	}

	backing := cache.NewMemoryBacking(memory)
	if !o.noICache {
		c.icache = cache.New(withLatencies(o.l1i, o.timing), backing)
	}
	if !o.noDCache {
		c.dcache = cache.New(withLatencies(o.l1d, o.timing), backing)
	}

	return c
}

func withLatencies(config cache.Config, timing *latency.TimingConfig) cache.Config {
	config.HitLatency = timing.L1HitLatency
	config.MissLatency = timing.L1MissLatency
	return config
}

// Observe charges the cycles for one retired instruction.
func (c *Core) Observe(event emu.CycleEvent) {
	cycles := c.table.GetLatency(event.Inst)
	stalls := uint64(0)

	if c.icache != nil {
		stalls += missPenalty(c.icache, c.icache.Read(event.PC, 4))
	}

	if c.dcache != nil && event.Outcome.Kind != emu.OutcomeTrap {
		if acc, ok := latency.MemoryAccess(event.Inst); ok {
			addr := acc.Address(event.Before.ReadReg(acc.Base))
			value := event.Before.ReadReg(acc.Value)
			stalls += missPenalty(c.dcache, c.dcache.Access(addr, acc.Size, acc.Store, value))
		}
	}

	if c.table.IsBranchOp(event.Inst) && c.mispredicted(event) {
		c.stats.Mispredictions++
		stalls += c.table.Config().BranchMispredictPenalty
	}

	c.stats.Instructions++
	c.stats.Stalls += stalls
	c.stats.Cycles += cycles + stalls
}

func missPenalty(cc *cache.Cache, result cache.AccessResult) uint64 {
	hit := cc.Config().HitLatency
	if result.Latency <= hit {
		return 0
	}
	return result.Latency - hit
}

// mispredicted predicts and trains on a branch or jump. A taken branch is
// mispredicted unless the BTB supplied the right target.
func (c *Core) mispredicted(event emu.CycleEvent) bool {
	taken := event.Outcome.Kind == emu.OutcomeJump
	target := event.Outcome.Target

	pred := c.predictor.Predict(event.PC)
	c.predictor.Update(event.PC, taken, target)

	switch event.Inst.(type) {
	case insts.Jal, insts.Jalr:
		return !pred.TargetKnown || pred.Target != target
	}

	if pred.Taken != taken {
		return true
	}
	return taken && (!pred.TargetKnown || pred.Target != target)
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// ICacheStats returns the instruction cache statistics, or zero values if
// the instruction cache is disabled.
func (c *Core) ICacheStats() cache.Statistics {
	if c.icache == nil {
		return cache.Statistics{}
	}
	return c.icache.Stats()
}

// DCacheStats returns the data cache statistics, or zero values if the data
// cache is disabled.
func (c *Core) DCacheStats() cache.Statistics {
	if c.dcache == nil {
		return cache.Statistics{}
	}
	return c.dcache.Stats()
}

// PredictorStats returns the branch predictor statistics.
func (c *Core) PredictorStats() PredictorStats {
	return c.predictor.Stats()
}

// Reset clears all timing state and statistics.
func (c *Core) Reset() {
	if c.icache != nil {
		c.icache.Reset()
	}
	if c.dcache != nil {
		c.dcache.Reset()
	}
	c.predictor.Reset()
	c.stats = Stats{}
}
