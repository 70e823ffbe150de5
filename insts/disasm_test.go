package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/insts"
)

var _ = Describe("Disassemble", func() {
	DescribeTable("renders assembler syntax",
		func(word uint32, expected string) {
			Expect(insts.Disassemble(insts.Decode(word))).To(Equal(expected))
		},
		Entry("lui", uint32(0x00010537), "lui a0, 0x10"),
		Entry("addi", uint32(0x00500293), "addi t0, zero, 5"),
		Entry("beq", uint32(0xFE028EE3), "beq t0, zero, -4"),
		Entry("ld", uint32(0x00813083), "ld ra, 8(sp)"),
		Entry("sd", uint32(0x00113423), "sd ra, 8(sp)"),
		Entry("jalr", uint32(0xF98680E7), "jalr ra, -104(a3)"),
		Entry("jal", uint32(0x008000EF), "jal ra, 8"),
		Entry("srai", uint32(0x43F0D093), "srai ra, ra, 63"),
		Entry("sub", uint32(0x402081B3), "sub gp, ra, sp"),
		Entry("fence", uint32(0x0FF0000F), "fence iorw, iorw"),
		Entry("ecall", uint32(0x00000073), "ecall"),
		Entry("ebreak", uint32(0x00100073), "ebreak"),
		Entry("undefined", uint32(0xFFFFFFFF), "undefined"),
	)
})
