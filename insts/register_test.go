package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/insts"
)

var _ = Describe("Register", func() {
	It("should convert every index to a register and back", func() {
		for i := uint32(0); i < insts.NumRegisters; i++ {
			r := insts.RegisterFromIndex(i)
			Expect(r.Index()).To(Equal(int(i)))
			Expect(r.IsGeneral()).To(BeTrue())
		}
	})

	It("should only use the low five bits of an index", func() {
		Expect(insts.RegisterFromIndex(37)).To(Equal(insts.X5))
	})

	It("should keep PC out of the register file", func() {
		Expect(insts.PC.IsGeneral()).To(BeFalse())
		Expect(func() { insts.PC.Index() }).To(Panic())
	})

	It("should map ABI aliases onto architectural registers", func() {
		Expect(insts.A0).To(Equal(insts.X10))
		Expect(insts.FP).To(Equal(insts.S0))
		Expect(insts.T6).To(Equal(insts.X31))
	})

	DescribeTable("names",
		func(r insts.Register, arch, abi string) {
			Expect(r.String()).To(Equal(arch))
			Expect(r.ABIName()).To(Equal(abi))
		},
		Entry("zero", insts.X0, "x0", "zero"),
		Entry("ra", insts.X1, "x1", "ra"),
		Entry("sp", insts.X2, "x2", "sp"),
		Entry("s0", insts.X8, "x8", "s0"),
		Entry("a0", insts.X10, "x10", "a0"),
		Entry("s11", insts.X27, "x27", "s11"),
		Entry("t6", insts.X31, "x31", "t6"),
		Entry("pc", insts.PC, "pc", "pc"),
	)
})
