package emu

import (
	"encoding/binary"
	"fmt"
)

// MemoryFault reports an access that falls outside the memory image.
type MemoryFault struct {
	Addr  uint64
	Size  uint64
	Write bool
}

func (f *MemoryFault) Error() string {
	kind := "read"
	if f.Write {
		kind = "write"
	}
	return fmt.Sprintf("memory fault: %d-byte %s at 0x%X", f.Size, kind, f.Addr)
}

// Memory is a flat, bounded, little-endian byte image starting at address 0.
type Memory struct {
	data []byte
}

// NewMemory creates a memory holding a copy of the given image.
func NewMemory(image []byte) *Memory {
	data := make([]byte, len(image))
	copy(data, image)
	return &Memory{data: data}
}

// NewMemorySize creates a zero-filled memory of the given size.
func NewMemorySize(size uint64) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the image size in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// Contains reports whether [addr, addr+size) lies within the image.
func (m *Memory) Contains(addr, size uint64) bool {
	end := addr + size
	return end >= addr && end <= m.Size()
}

func (m *Memory) slice(addr, size uint64, write bool) ([]byte, error) {
	if !m.Contains(addr, size) {
		return nil, &MemoryFault{Addr: addr, Size: size, Write: write}
	}
	return m.data[addr : addr+size], nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint64) (uint8, error) {
	b, err := m.slice(addr, 1, false)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint64) (uint16, error) {
	b, err := m.slice(addr, 2, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint64) (uint32, error) {
	b, err := m.slice(addr, 4, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Read64 reads a little-endian doubleword.
func (m *Memory) Read64(addr uint64) (uint64, error) {
	b, err := m.slice(addr, 8, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint64, value uint8) error {
	b, err := m.slice(addr, 1, true)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint64, value uint16) error {
	b, err := m.slice(addr, 2, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint64, value uint32) error {
	b, err := m.slice(addr, 4, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

// Write64 writes a little-endian doubleword.
func (m *Memory) Write64(addr uint64, value uint64) error {
	b, err := m.slice(addr, 8, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

// ReadBytes copies n bytes starting at addr.
func (m *Memory) ReadBytes(addr, n uint64) ([]byte, error) {
	b, err := m.slice(addr, n, false)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// WriteBytes copies buf into memory starting at addr.
func (m *Memory) WriteBytes(addr uint64, buf []byte) error {
	b, err := m.slice(addr, uint64(len(buf)), true)
	if err != nil {
		return err
	}
	copy(b, buf)
	return nil
}

// ReadCString reads a NUL-terminated string starting at addr.
func (m *Memory) ReadCString(addr uint64) (string, error) {
	for end := addr; ; end++ {
		c, err := m.Read8(end)
		if err != nil {
			return "", err
		}
		if c == 0 {
			return string(m.data[addr:end]), nil
		}
	}
}
