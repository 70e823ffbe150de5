// Package emu provides functional RV64I emulation.
package emu

import "github.com/sarchlab/rv64sim/insts"

// RegFile represents the RV64I register file.
// It contains 32 general-purpose registers (x0-x31) and the program counter.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is hardwired to zero; it always reads as 0.
	X [32]uint64

	// PC is the program counter.
	PC uint64
}

// ReadReg reads a register value. x0 returns 0 and insts.PC returns the
// program counter.
func (r *RegFile) ReadReg(reg insts.Register) uint64 {
	switch {
	case reg == insts.X0:
		return 0
	case reg == insts.PC:
		return r.PC
	case reg.IsGeneral():
		return r.X[reg]
	}
	panic("emu: register index out of range")
}

// WriteReg writes a value to a register. Writes to x0 are discarded.
func (r *RegFile) WriteReg(reg insts.Register, value uint64) {
	switch {
	case reg == insts.X0:
		return
	case reg == insts.PC:
		r.PC = value
	case reg.IsGeneral():
		r.X[reg] = value
	default:
		panic("emu: register index out of range")
	}
}

// ReadReg32 reads the lower 32 bits of a register.
func (r *RegFile) ReadReg32(reg insts.Register) uint32 {
	return uint32(r.ReadReg(reg))
}

// WriteReg32 sign-extends a 32-bit result into a register, as the RV64I
// word instructions require.
func (r *RegFile) WriteReg32(reg insts.Register, value uint32) {
	r.WriteReg(reg, uint64(int64(int32(value))))
}
