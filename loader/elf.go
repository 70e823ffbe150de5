// Package loader provides program loading for RV64 executables: ELF binaries
// and raw memory images.
package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
	"os"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// DefaultStackSize is the stack space reserved above the highest segment of
// an ELF program (1MB).
const DefaultStackSize = 1024 * 1024

// MaxImageSize bounds the flat memory image built for a program (1GB).
const MaxImageSize = 1 << 30

// Segment represents a loadable segment.
type Segment struct {
	// VirtAddr is the address where this segment should be loaded.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents a loaded program ready for execution.
type Program struct {
	// EntryPoint is the address where execution should begin.
	EntryPoint uint64
	// Segments contains all loadable segments.
	Segments []Segment
	// InitialSP is the initial stack pointer value. It is zero for raw
	// images, which start with every register cleared.
	InitialSP uint64
}

// Load reads an executable, choosing the format by content: files starting
// with the ELF magic are parsed as RV64 ELF binaries, anything else is a raw
// image loaded at address 0.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, len(elf.ELFMAG))
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	if bytes.Equal(magic[:n], []byte(elf.ELFMAG)) {
		return LoadELF(path)
	}
	return LoadRaw(path)
}

// LoadELF parses an RV64 ELF binary and returns a Program struct ready for
// loading into the emulator's memory.
func LoadELF(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("not a 64-bit ELF file")
	}

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: f.Entry,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		if phdr.Vaddr > MaxImageSize || phdr.Memsz > MaxImageSize || phdr.Filesz > MaxImageSize {
			return nil, fmt.Errorf("segment at 0x%x does not fit in a 0x%x byte image",
				phdr.Vaddr, MaxImageSize)
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  max(phdr.Memsz, phdr.Filesz),
			Flags:    flags,
		})
	}

	if prog.End() > MaxImageSize {
		return nil, fmt.Errorf("program spans 0x%x bytes, more than the 0x%x byte limit",
			prog.End(), MaxImageSize)
	}

	prog.InitialSP = alignUp(prog.End(), 16) + DefaultStackSize

	return prog, nil
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
