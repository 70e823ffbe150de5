package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/insts"
	"github.com/sarchlab/rv64sim/timing/cache"
	"github.com/sarchlab/rv64sim/timing/core"
	"github.com/sarchlab/rv64sim/timing/latency"
)

// run executes a program to completion under a timing model.
func run(program []insts.Instruction, opts ...core.Option) (*core.Core, emu.StepResult) {
	memory := emu.NewMemory(assemble(program...))
	c := core.NewCore(memory, opts...)
	e := emu.NewEmulator(memory, emu.WithInstrumentation(c))
	return c, e.Run()
}

var _ = Describe("Core", func() {
	perfect := []core.Option{core.WithoutICache(), core.WithoutDCache()}

	It("should charge one cycle per ALU instruction", func() {
		c, result := run([]insts.Instruction{
			insts.Addi{Rd: insts.T0, Rs1: insts.X0, Imm: 1},
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: 1},
			insts.Lui{Rd: insts.T1, Imm: 0x1000},
		}, perfect...)

		Expect(result.Exited).To(BeTrue())
		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(3)))
		Expect(stats.Cycles).To(Equal(uint64(3)))
		Expect(stats.Stalls).To(BeZero())
		Expect(stats.CPI()).To(Equal(1.0))
	})

	It("should report zero CPI before any instruction", func() {
		Expect(core.Stats{}.CPI()).To(Equal(0.0))
	})

	It("should charge an instruction cache miss once per line", func() {
		c, _ := run([]insts.Instruction{
			insts.Addi{Rd: insts.T0, Rs1: insts.X0, Imm: 1},
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: 1},
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: 1},
		}, core.WithoutDCache())

		Expect(c.Stats().Cycles).To(Equal(uint64(3 + 19)))
		Expect(c.ICacheStats().Misses).To(Equal(uint64(1)))
		Expect(c.ICacheStats().Hits).To(Equal(uint64(2)))
		Expect(c.DCacheStats()).To(Equal(cache.Statistics{}))
	})

	It("should charge loads through the data cache", func() {
		c, _ := run([]insts.Instruction{
			insts.Ld{Rd: insts.A0, Rs1: insts.X0, Imm: 0},
			insts.Ld{Rd: insts.A1, Rs1: insts.X0, Imm: 0},
		}, core.WithoutICache())

		// Load latency is 2; the first load misses.
		Expect(c.Stats().Cycles).To(Equal(uint64(2 + 19 + 2)))
		Expect(c.DCacheStats().Reads).To(Equal(uint64(2)))
		Expect(c.DCacheStats().Misses).To(Equal(uint64(1)))
	})

	It("should add forwarding latency to a load after a store", func() {
		c, _ := run([]insts.Instruction{
			insts.Sw{Rs1: insts.X0, Rs2: insts.X0, Imm: 0},
			insts.Lw{Rd: insts.A0, Rs1: insts.X0, Imm: 0},
		}, core.WithoutICache())

		Expect(c.Stats().Cycles).To(Equal(uint64(1 + 19 + 2 + 1)))
		Expect(c.DCacheStats().Writes).To(Equal(uint64(1)))
	})

	It("should not access the data cache for a faulting load", func() {
		c, result := run([]insts.Instruction{
			insts.Lui{Rd: insts.T0, Imm: 0x10000},
			insts.Ld{Rd: insts.A0, Rs1: insts.T0, Imm: 0},
		}, core.WithoutICache())

		Expect(result.Err).To(HaveOccurred())
		Expect(c.Stats().Instructions).To(Equal(uint64(2)))
		Expect(c.DCacheStats().Reads).To(BeZero())
	})

	It("should charge a mispredicted taken branch", func() {
		c, _ := run([]insts.Instruction{
			insts.Beq{Rs1: insts.X0, Rs2: insts.X0, Imm: 8},
			insts.Addi{Rd: insts.A0, Rs1: insts.X0, Imm: -1},
			insts.Addi{Rd: insts.A0, Rs1: insts.X0, Imm: 1},
		}, perfect...)

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(2)))
		Expect(stats.Mispredictions).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(2 + 3)))
	})

	It("should learn a loop branch", func() {
		c, _ := run([]insts.Instruction{
			insts.Addi{Rd: insts.T0, Rs1: insts.X0, Imm: 10},
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: -1},
			insts.Bne{Rs1: insts.T0, Rs2: insts.X0, Imm: -4},
		}, perfect...)

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(21)))
		// The first iteration misses in the BTB and the exit is
		// predicted taken.
		Expect(stats.Mispredictions).To(Equal(uint64(2)))
		Expect(stats.Cycles).To(Equal(uint64(21 + 2*3)))
		Expect(c.PredictorStats().Predictions).To(Equal(uint64(10)))
	})

	It("should predict a repeated call target from the BTB", func() {
		c, _ := run([]insts.Instruction{
			insts.Addi{Rd: insts.T0, Rs1: insts.X0, Imm: 2},
			insts.Jal{Rd: insts.RA, Imm: 16}, // 4: call 20
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: -1},
			insts.Bne{Rs1: insts.T0, Rs2: insts.X0, Imm: -8},
			insts.Jal{Rd: insts.X0, Imm: 8}, // 16: skip the function
			insts.Jalr{Rd: insts.X0, Rs1: insts.RA, Imm: 0},
		}, perfect...)

		stats := c.Stats()
		// Cold jal, cold jalr, cold bne, bne exit, cold skip.
		Expect(stats.Mispredictions).To(Equal(uint64(5)))
		Expect(stats.Instructions).To(Equal(uint64(1 + 2*4 + 1)))
	})

	It("should use the configured latencies", func() {
		config := latency.DefaultTimingConfig()
		config.ALULatency = 2
		config.L1MissLatency = 11

		c, _ := run([]insts.Instruction{
			insts.Addi{Rd: insts.T0, Rs1: insts.X0, Imm: 1},
		}, core.WithTimingConfig(config), core.WithoutDCache())

		Expect(c.Stats().Cycles).To(Equal(uint64(2 + 10)))
	})

	It("should reset all statistics", func() {
		c, _ := run([]insts.Instruction{
			insts.Lw{Rd: insts.A0, Rs1: insts.X0, Imm: 0},
		})
		c.Reset()

		Expect(c.Stats()).To(Equal(core.Stats{}))
		Expect(c.ICacheStats().Reads).To(BeZero())
		Expect(c.DCacheStats().Reads).To(BeZero())
		Expect(c.PredictorStats().Predictions).To(BeZero())
	})
})
