package emu

import "github.com/sarchlab/rv64sim/insts"

// ALU implements RV64I integer arithmetic and logic operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ExecuteReg performs a register-register operation: rd = rs1 op rs2.
func (a *ALU) ExecuteReg(op insts.Op, ops insts.RegOperands) {
	x := a.regFile.ReadReg(ops.Rs1)
	y := a.regFile.ReadReg(ops.Rs2)
	a.regFile.WriteReg(ops.Rd, compute(op, x, y))
}

// ExecuteImm performs a register-immediate operation: rd = rs1 op sext(imm).
func (a *ALU) ExecuteImm(op insts.Op, ops insts.ImmOperands) {
	x := a.regFile.ReadReg(ops.Rs1)
	a.regFile.WriteReg(ops.Rd, compute(op, x, uint64(int64(ops.Imm))))
}

// ExecuteShift performs a shift by an immediate amount.
func (a *ALU) ExecuteShift(op insts.Op, ops insts.ShiftOperands) {
	x := a.regFile.ReadReg(ops.Rs1)
	a.regFile.WriteReg(ops.Rd, compute(op, x, uint64(ops.Shamt)))
}

// LUI loads the upper immediate: rd = sext(imm).
func (a *ALU) LUI(ops insts.UpperOperands) {
	a.regFile.WriteReg(ops.Rd, uint64(int64(ops.Imm)))
}

// AUIPC adds the upper immediate to the PC: rd = pc + sext(imm).
func (a *ALU) AUIPC(ops insts.UpperOperands) {
	a.regFile.WriteReg(ops.Rd, a.regFile.PC+uint64(int64(ops.Imm)))
}

// compute evaluates an ALU operation. Register and immediate forms share an
// implementation. Shift amounts are masked to 6 bits, or 5 bits for the word
// forms, whose 32-bit results are sign-extended.
func compute(op insts.Op, x, y uint64) uint64 {
	switch op {
	case insts.OpADD, insts.OpADDI:
		return x + y
	case insts.OpSUB:
		return x - y
	case insts.OpSLL, insts.OpSLLI:
		return x << (y & 63)
	case insts.OpSLT, insts.OpSLTI:
		return boolToUint64(int64(x) < int64(y))
	case insts.OpSLTU, insts.OpSLTIU:
		return boolToUint64(x < y)
	case insts.OpXOR, insts.OpXORI:
		return x ^ y
	case insts.OpSRL, insts.OpSRLI:
		return x >> (y & 63)
	case insts.OpSRA, insts.OpSRAI:
		return uint64(int64(x) >> (y & 63))
	case insts.OpOR, insts.OpORI:
		return x | y
	case insts.OpAND, insts.OpANDI:
		return x & y

	case insts.OpADDW, insts.OpADDIW:
		return signExtend32(uint32(x) + uint32(y))
	case insts.OpSUBW:
		return signExtend32(uint32(x) - uint32(y))
	case insts.OpSLLW, insts.OpSLLIW:
		return signExtend32(uint32(x) << (y & 31))
	case insts.OpSRLW, insts.OpSRLIW:
		return signExtend32(uint32(x) >> (y & 31))
	case insts.OpSRAW, insts.OpSRAIW:
		return signExtend32(uint32(int32(x) >> (y & 31)))
	}

	panic("emu: not an ALU operation: " + op.String())
}

func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
