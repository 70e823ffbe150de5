package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemorySize(64)
	})

	It("should report its size", func() {
		Expect(memory.Size()).To(Equal(uint64(64)))
	})

	It("should copy the initial image", func() {
		image := []byte{1, 2, 3, 4}
		m := emu.NewMemory(image)
		image[0] = 9

		Expect(m.Read8(0)).To(Equal(uint8(1)))
	})

	It("should store values little-endian", func() {
		Expect(memory.Write64(8, 0x0807060504030201)).To(Succeed())

		Expect(memory.Read8(8)).To(Equal(uint8(0x01)))
		Expect(memory.Read16(8)).To(Equal(uint16(0x0201)))
		Expect(memory.Read32(8)).To(Equal(uint32(0x04030201)))
		Expect(memory.Read32(12)).To(Equal(uint32(0x08070605)))
		Expect(memory.Read64(8)).To(Equal(uint64(0x0807060504030201)))
	})

	It("should allow an access ending exactly at the bound", func() {
		Expect(memory.Write64(56, 1)).To(Succeed())
		Expect(memory.Read64(56)).To(Equal(uint64(1)))
	})

	DescribeTable("faults outside the image",
		func(access func(m *emu.Memory) error, addr uint64, write bool) {
			err := access(memory)

			var fault *emu.MemoryFault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.Addr).To(Equal(addr))
			Expect(fault.Write).To(Equal(write))
		},
		Entry("read past the end", func(m *emu.Memory) error {
			_, err := m.Read8(64)
			return err
		}, uint64(64), false),
		Entry("straddling read", func(m *emu.Memory) error {
			_, err := m.Read64(60)
			return err
		}, uint64(60), false),
		Entry("straddling write", func(m *emu.Memory) error {
			return m.Write32(62, 0)
		}, uint64(62), true),
		Entry("wrapping address", func(m *emu.Memory) error {
			_, err := m.Read64(0xFFFFFFFFFFFFFFFC)
			return err
		}, uint64(0xFFFFFFFFFFFFFFFC), false),
		Entry("byte write", func(m *emu.Memory) error {
			return m.Write8(1<<40, 0)
		}, uint64(1<<40), true),
	)

	It("should leave memory unchanged on a faulting write", func() {
		Expect(memory.Write32(60, 0xAABBCCDD)).To(Succeed())
		Expect(memory.Write64(60, 0)).NotTo(Succeed())
		Expect(memory.Read32(60)).To(Equal(uint32(0xAABBCCDD)))
	})

	It("should describe the fault", func() {
		_, err := memory.Read32(100)
		Expect(err).To(MatchError("memory fault: 4-byte read at 0x64"))
	})

	Describe("byte slices", func() {
		It("should copy bytes in and out", func() {
			Expect(memory.WriteBytes(10, []byte("hello"))).To(Succeed())

			out, err := memory.ReadBytes(10, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("hello"))
		})

		It("should read C strings", func() {
			Expect(memory.WriteBytes(20, []byte("path\x00junk"))).To(Succeed())

			Expect(memory.ReadCString(20)).To(Equal("path"))
		})

		It("should fault on an unterminated C string", func() {
			Expect(memory.WriteBytes(60, []byte("abcd"))).To(Succeed())

			_, err := memory.ReadCString(60)
			Expect(err).To(HaveOccurred())
		})
	})
})
