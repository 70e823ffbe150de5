package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/insts"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read back written registers", func() {
		regFile.WriteReg(insts.T0, 0xDEADBEEF)
		Expect(regFile.ReadReg(insts.T0)).To(Equal(uint64(0xDEADBEEF)))
		Expect(regFile.X[5]).To(Equal(uint64(0xDEADBEEF)))
	})

	It("should discard writes to x0", func() {
		regFile.WriteReg(insts.X0, 42)
		Expect(regFile.ReadReg(insts.X0)).To(BeZero())
		Expect(regFile.X[0]).To(BeZero())
	})

	It("should expose the program counter", func() {
		regFile.WriteReg(insts.PC, 0x1000)
		Expect(regFile.PC).To(Equal(uint64(0x1000)))
		Expect(regFile.ReadReg(insts.PC)).To(Equal(uint64(0x1000)))
	})

	It("should sign-extend 32-bit writes", func() {
		regFile.WriteReg32(insts.A0, 0x80000000)
		Expect(regFile.ReadReg(insts.A0)).To(Equal(uint64(0xFFFFFFFF80000000)))
		Expect(regFile.ReadReg32(insts.A0)).To(Equal(uint32(0x80000000)))

		regFile.WriteReg32(insts.A1, 0x7FFFFFFF)
		Expect(regFile.ReadReg(insts.A1)).To(Equal(uint64(0x7FFFFFFF)))
	})

	It("should panic on an out-of-range register", func() {
		Expect(func() { regFile.ReadReg(insts.Register(40)) }).To(Panic())
		Expect(func() { regFile.WriteReg(insts.Register(40), 1) }).To(Panic())
	})
})
