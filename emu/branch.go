package emu

import "github.com/sarchlab/rv64sim/insts"

// BranchUnit implements RV64I branch and jump operations. It computes targets
// without updating the PC; the emulator applies them.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Branch evaluates a conditional branch. It returns the target and whether the
// branch is taken.
func (b *BranchUnit) Branch(op insts.Op, ops insts.BranchOperands) (uint64, bool) {
	x := b.regFile.ReadReg(ops.Rs1)
	y := b.regFile.ReadReg(ops.Rs2)

	var taken bool
	switch op {
	case insts.OpBEQ:
		taken = x == y
	case insts.OpBNE:
		taken = x != y
	case insts.OpBLT:
		taken = int64(x) < int64(y)
	case insts.OpBGE:
		taken = int64(x) >= int64(y)
	case insts.OpBLTU:
		taken = x < y
	case insts.OpBGEU:
		taken = x >= y
	default:
		panic("emu: not a branch: " + op.String())
	}

	return b.regFile.PC + uint64(int64(ops.Imm)), taken
}

// JAL writes the return address to rd and returns pc + imm.
func (b *BranchUnit) JAL(ops insts.JumpOperands) uint64 {
	pc := b.regFile.PC
	b.regFile.WriteReg(ops.Rd, pc+4)
	return pc + uint64(int64(ops.Imm))
}

// JALR returns (rs1 + imm) with bit 0 cleared after writing the return
// address to rd. rs1 is read first so rd may equal rs1.
func (b *BranchUnit) JALR(ops insts.ImmOperands) uint64 {
	target := (b.regFile.ReadReg(ops.Rs1) + uint64(int64(ops.Imm))) &^ 1
	b.regFile.WriteReg(ops.Rd, b.regFile.PC+4)
	return target
}
