package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/loader"
)

const (
	machineRISCV = 243
	machineX8664 = 62
)

// testSegment describes a PT_LOAD (or other) program header for writeELF.
type testSegment struct {
	typ     uint32
	flags   uint32
	addr    uint64
	data    []byte
	memSize uint64
}

func loadSegment(addr uint64, flags uint32, data []byte) testSegment {
	return testSegment{typ: 1, flags: flags, addr: addr, data: data, memSize: uint64(len(data))}
}

// writeELF writes a minimal little-endian ELF64 executable.
func writeELF(path string, machine uint16, entry uint64, segs ...testSegment) {
	const ehdrSize, phdrSize = 64, 56

	header := make([]byte, ehdrSize)
	copy(header[0:4], []byte{0x7f, 'E', 'L', 'F'})
	header[4] = 2 // 64-bit
	header[5] = 1 // little endian
	header[6] = 1 // version
	binary.LittleEndian.PutUint16(header[16:18], 2) // executable
	binary.LittleEndian.PutUint16(header[18:20], machine)
	binary.LittleEndian.PutUint32(header[20:24], 1)
	binary.LittleEndian.PutUint64(header[24:32], entry)
	binary.LittleEndian.PutUint64(header[32:40], ehdrSize)
	binary.LittleEndian.PutUint16(header[52:54], ehdrSize)
	binary.LittleEndian.PutUint16(header[54:56], phdrSize)
	binary.LittleEndian.PutUint16(header[56:58], uint16(len(segs)))
	binary.LittleEndian.PutUint16(header[58:60], 64)

	out := header
	offset := uint64(ehdrSize + phdrSize*len(segs))
	var payload []byte
	for _, seg := range segs {
		ph := make([]byte, phdrSize)
		binary.LittleEndian.PutUint32(ph[0:4], seg.typ)
		binary.LittleEndian.PutUint32(ph[4:8], seg.flags)
		binary.LittleEndian.PutUint64(ph[8:16], offset)
		binary.LittleEndian.PutUint64(ph[16:24], seg.addr)
		binary.LittleEndian.PutUint64(ph[24:32], seg.addr)
		binary.LittleEndian.PutUint64(ph[32:40], uint64(len(seg.data)))
		binary.LittleEndian.PutUint64(ph[40:48], seg.memSize)
		binary.LittleEndian.PutUint64(ph[48:56], 0x1000)
		out = append(out, ph...)
		payload = append(payload, seg.data...)
		offset += uint64(len(seg.data))
	}
	out = append(out, payload...)

	ExpectWithOffset(1, os.WriteFile(path, out, 0o644)).To(Succeed())
}

var _ = Describe("ELF Loader", func() {
	var (
		tempDir string
		elfPath string
		code    []byte
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		elfPath = filepath.Join(tempDir, "test.elf")
		code = []byte{
			0x37, 0x05, 0x01, 0x00, // lui a0, 0x10
			0x73, 0x00, 0x00, 0x00, // ecall
		}
	})

	Describe("LoadELF", func() {
		Context("with a valid RV64 ELF binary", func() {
			BeforeEach(func() {
				writeELF(elfPath, machineRISCV, 0x1004, loadSegment(0x1000, 0x5, code))
			})

			It("should extract the entry point", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint64(0x1004)))
			})

			It("should load segment contents and permissions", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(Equal([]loader.Segment{{
					VirtAddr: 0x1000,
					Data:     code,
					MemSize:  8,
					Flags:    loader.SegmentFlagExecute | loader.SegmentFlagRead,
				}}))
			})

			It("should place the stack above the program", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.End()).To(Equal(uint64(0x1008)))
				Expect(prog.InitialSP).To(Equal(uint64(0x1010 + loader.DefaultStackSize)))
			})
		})

		It("should load multiple PT_LOAD segments", func() {
			data := []byte{0x01, 0x02, 0x03, 0x04}
			writeELF(elfPath, machineRISCV, 0x1000,
				loadSegment(0x1000, 0x5, code),
				loadSegment(0x2000, 0x6, data))

			prog, err := loader.LoadELF(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[1].Data).To(Equal(data))
			Expect(prog.Segments[1].Flags & loader.SegmentFlagWrite).NotTo(BeZero())
			Expect(prog.Segments[1].Flags & loader.SegmentFlagExecute).To(BeZero())
		})

		It("should keep BSS sizes", func() {
			bss := loadSegment(0x2000, 0x6, []byte{1, 2, 3, 4})
			bss.memSize = 1024
			writeELF(elfPath, machineRISCV, 0x1000, loadSegment(0x1000, 0x5, code), bss)

			prog, err := loader.LoadELF(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments[1].MemSize).To(Equal(uint64(1024)))
			Expect(prog.End()).To(Equal(uint64(0x2400)))
		})

		It("should skip segments that are not PT_LOAD", func() {
			note := loadSegment(0x3000, 0x4, []byte{9, 9})
			note.typ = 4
			writeELF(elfPath, machineRISCV, 0x1000, note)

			prog, err := loader.LoadELF(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(BeEmpty())
			Expect(prog.EntryPoint).To(Equal(uint64(0x1000)))
		})

		It("should reject non-RISC-V machines", func() {
			writeELF(elfPath, machineX8664, 0x1000, loadSegment(0x1000, 0x5, code))

			_, err := loader.LoadELF(elfPath)
			Expect(err).To(MatchError(ContainSubstring("not a RISC-V ELF file")))
		})

		It("should reject segments beyond the image limit", func() {
			writeELF(elfPath, machineRISCV, 0x1000, loadSegment(0x400000000, 0x5, code))

			_, err := loader.LoadELF(elfPath)
			Expect(err).To(MatchError(ContainSubstring("does not fit")))
		})

		It("should return an error for a missing file", func() {
			_, err := loader.LoadELF(filepath.Join(tempDir, "missing.elf"))
			Expect(err).To(MatchError(ContainSubstring("failed to open ELF file")))
		})
	})

	Describe("Load", func() {
		It("should detect ELF binaries", func() {
			writeELF(elfPath, machineRISCV, 0x1000, loadSegment(0x1000, 0x5, code))

			prog, err := loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(Equal(uint64(0x1000)))
			Expect(prog.InitialSP).NotTo(BeZero())
		})

		It("should treat anything else as a raw image", func() {
			rawPath := filepath.Join(tempDir, "prog.bin")
			Expect(os.WriteFile(rawPath, code, 0o644)).To(Succeed())

			prog, err := loader.Load(rawPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(BeZero())
			Expect(prog.InitialSP).To(BeZero())
			Expect(prog.Segments).To(HaveLen(1))
			Expect(prog.Segments[0].Data).To(Equal(code))
		})

		It("should load files shorter than the ELF magic", func() {
			rawPath := filepath.Join(tempDir, "short.bin")
			Expect(os.WriteFile(rawPath, []byte{0x7f}, 0o644)).To(Succeed())

			prog, err := loader.Load(rawPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.End()).To(Equal(uint64(1)))
		})

		It("should load an empty file as an empty image", func() {
			rawPath := filepath.Join(tempDir, "empty.bin")
			Expect(os.WriteFile(rawPath, nil, 0o644)).To(Succeed())

			prog, err := loader.Load(rawPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.End()).To(BeZero())
		})

		It("should return an error for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing"))
			Expect(err).To(MatchError(ContainSubstring("failed to open program")))
		})
	})
})
