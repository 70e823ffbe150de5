package loader

import (
	"fmt"
	"os"

	"github.com/sarchlab/rv64sim/emu"
)

// LoadRaw reads a raw memory image. The whole file is loaded at address 0 and
// execution starts at 0.
func LoadRaw(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw image: %w", err)
	}
	return FromImage(data)
}

// FromImage wraps an in-memory raw image as a Program.
func FromImage(data []byte) (*Program, error) {
	if uint64(len(data)) > MaxImageSize {
		return nil, fmt.Errorf("raw image is %d bytes, more than the 0x%x byte limit",
			len(data), MaxImageSize)
	}

	return &Program{
		Segments: []Segment{{
			VirtAddr: 0,
			Data:     data,
			MemSize:  uint64(len(data)),
			Flags:    SegmentFlagRead | SegmentFlagWrite | SegmentFlagExecute,
		}},
	}, nil
}

// End returns the address just past the highest segment.
func (p *Program) End() uint64 {
	end := uint64(0)
	for _, seg := range p.Segments {
		end = max(end, seg.VirtAddr+seg.MemSize)
	}
	return end
}

// NewMemory flattens the program into an emulator memory image. The image
// covers every segment and, for ELF programs, the stack below InitialSP.
// BSS and gaps between segments are zero.
func (p *Program) NewMemory() (*emu.Memory, error) {
	size := max(p.End(), p.InitialSP)
	if size > MaxImageSize {
		return nil, fmt.Errorf("program needs 0x%x bytes of memory, more than the 0x%x byte limit",
			size, MaxImageSize)
	}

	memory := emu.NewMemorySize(size)
	for _, seg := range p.Segments {
		if err := memory.WriteBytes(seg.VirtAddr, seg.Data); err != nil {
			return nil, fmt.Errorf("failed to place segment at 0x%x: %w", seg.VirtAddr, err)
		}
	}

	return memory, nil
}
