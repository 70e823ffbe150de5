package cache

import (
	"github.com/sarchlab/rv64sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore. The functional memory is
// always up to date because the emulator executes every store before the
// timing model sees it, so writebacks are discarded.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory. Bytes beyond the end of memory
// read as zero.
func (m *MemoryBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		b, err := m.memory.Read8(addr + uint64(i))
		if err != nil {
			break
		}
		data[i] = b
	}
	return data
}

// Write discards data.
func (m *MemoryBacking) Write(addr uint64, data []byte) {}
