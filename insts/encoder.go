package insts

import (
	"errors"
	"fmt"
)

// ErrNotEncodable is returned when an instruction value has no 32-bit
// encoding, either because it is Undefined or because an operand is out of
// range for its format.
var ErrNotEncodable = errors.New("instruction not encodable")

// Encode packs an instruction back into its 32-bit machine word. For every
// value produced by Decode other than Undefined, Decode(Encode(inst)) == inst.
func Encode(inst Instruction) (uint32, error) {
	switch v := inst.(type) {
	case Beq:
		return encodeB(OpBEQ, BranchOperands(v))
	case Bne:
		return encodeB(OpBNE, BranchOperands(v))
	case Blt:
		return encodeB(OpBLT, BranchOperands(v))
	case Bge:
		return encodeB(OpBGE, BranchOperands(v))
	case Bltu:
		return encodeB(OpBLTU, BranchOperands(v))
	case Bgeu:
		return encodeB(OpBGEU, BranchOperands(v))

	case Lb:
		return encodeI(OpLB, ImmOperands(v))
	case Lh:
		return encodeI(OpLH, ImmOperands(v))
	case Lw:
		return encodeI(OpLW, ImmOperands(v))
	case Ld:
		return encodeI(OpLD, ImmOperands(v))
	case Lbu:
		return encodeI(OpLBU, ImmOperands(v))
	case Lhu:
		return encodeI(OpLHU, ImmOperands(v))
	case Lwu:
		return encodeI(OpLWU, ImmOperands(v))

	case Sb:
		return encodeS(OpSB, StoreOperands(v))
	case Sh:
		return encodeS(OpSH, StoreOperands(v))
	case Sw:
		return encodeS(OpSW, StoreOperands(v))
	case Sd:
		return encodeS(OpSD, StoreOperands(v))

	case Addi:
		return encodeI(OpADDI, ImmOperands(v))
	case Slti:
		return encodeI(OpSLTI, ImmOperands(v))
	case Sltiu:
		return encodeI(OpSLTIU, ImmOperands(v))
	case Xori:
		return encodeI(OpXORI, ImmOperands(v))
	case Ori:
		return encodeI(OpORI, ImmOperands(v))
	case Andi:
		return encodeI(OpANDI, ImmOperands(v))
	case Addiw:
		return encodeI(OpADDIW, ImmOperands(v))
	case Jalr:
		return encodeI(OpJALR, ImmOperands(v))

	case Slli:
		return encodeShift(OpSLLI, ShiftOperands(v), 64)
	case Srli:
		return encodeShift(OpSRLI, ShiftOperands(v), 64)
	case Srai:
		return encodeShift(OpSRAI, ShiftOperands(v), 64)
	case Slliw:
		return encodeShift(OpSLLIW, ShiftOperands(v), 32)
	case Srliw:
		return encodeShift(OpSRLIW, ShiftOperands(v), 32)
	case Sraiw:
		return encodeShift(OpSRAIW, ShiftOperands(v), 32)

	case Add:
		return encodeR(OpADD, RegOperands(v))
	case Sub:
		return encodeR(OpSUB, RegOperands(v))
	case Sll:
		return encodeR(OpSLL, RegOperands(v))
	case Slt:
		return encodeR(OpSLT, RegOperands(v))
	case Sltu:
		return encodeR(OpSLTU, RegOperands(v))
	case Xor:
		return encodeR(OpXOR, RegOperands(v))
	case Srl:
		return encodeR(OpSRL, RegOperands(v))
	case Sra:
		return encodeR(OpSRA, RegOperands(v))
	case Or:
		return encodeR(OpOR, RegOperands(v))
	case And:
		return encodeR(OpAND, RegOperands(v))
	case Addw:
		return encodeR(OpADDW, RegOperands(v))
	case Subw:
		return encodeR(OpSUBW, RegOperands(v))
	case Sllw:
		return encodeR(OpSLLW, RegOperands(v))
	case Srlw:
		return encodeR(OpSRLW, RegOperands(v))
	case Sraw:
		return encodeR(OpSRAW, RegOperands(v))

	case Jal:
		return encodeJ(JumpOperands(v))
	case Lui:
		return encodeU(OpLUI, UpperOperands(v))
	case Auipc:
		return encodeU(OpAUIPC, UpperOperands(v))

	case Fence:
		return encodeFence(v)
	case Ecall:
		return opcodeSystem, nil
	case Ebreak:
		return 1<<20 | opcodeSystem, nil
	}

	return 0, fmt.Errorf("%w: %T", ErrNotEncodable, inst)
}

func checkRegs(op Op, regs ...Register) error {
	for _, r := range regs {
		if !r.IsGeneral() {
			return fmt.Errorf("%w: %s uses %v", ErrNotEncodable, op, r)
		}
	}
	return nil
}

func checkImm(op Op, imm int32, bits uint, align int32) error {
	limit := int32(1) << (bits - 1)
	if imm < -limit || imm >= limit || imm%align != 0 {
		return fmt.Errorf("%w: %s immediate %d out of range", ErrNotEncodable, op, imm)
	}
	return nil
}

func encodeR(op Op, ops RegOperands) (uint32, error) {
	if err := checkRegs(op, ops.Rd, ops.Rs1, ops.Rs2); err != nil {
		return 0, err
	}
	info := opTable[op]
	return info.funct7<<25 |
		uint32(ops.Rs2)<<20 |
		uint32(ops.Rs1)<<15 |
		info.funct3<<12 |
		uint32(ops.Rd)<<7 |
		info.opcode, nil
}

func encodeI(op Op, ops ImmOperands) (uint32, error) {
	if err := checkRegs(op, ops.Rd, ops.Rs1); err != nil {
		return 0, err
	}
	if err := checkImm(op, ops.Imm, 12, 1); err != nil {
		return 0, err
	}
	info := opTable[op]
	return uint32(ops.Imm)<<20 |
		uint32(ops.Rs1)<<15 |
		info.funct3<<12 |
		uint32(ops.Rd)<<7 |
		info.opcode, nil
}

func encodeShift(op Op, ops ShiftOperands, width uint32) (uint32, error) {
	if err := checkRegs(op, ops.Rd, ops.Rs1); err != nil {
		return 0, err
	}
	if ops.Shamt >= width {
		return 0, fmt.Errorf("%w: %s shift amount %d out of range", ErrNotEncodable, op, ops.Shamt)
	}
	info := opTable[op]
	return info.funct7<<25 |
		ops.Shamt<<20 |
		uint32(ops.Rs1)<<15 |
		info.funct3<<12 |
		uint32(ops.Rd)<<7 |
		info.opcode, nil
}

func encodeS(op Op, ops StoreOperands) (uint32, error) {
	if err := checkRegs(op, ops.Rs1, ops.Rs2); err != nil {
		return 0, err
	}
	if err := checkImm(op, ops.Imm, 12, 1); err != nil {
		return 0, err
	}
	info := opTable[op]
	imm := uint32(ops.Imm)
	return Bits(imm, 5, 7)<<25 |
		uint32(ops.Rs2)<<20 |
		uint32(ops.Rs1)<<15 |
		info.funct3<<12 |
		Bits(imm, 0, 5)<<7 |
		info.opcode, nil
}

func encodeB(op Op, ops BranchOperands) (uint32, error) {
	if err := checkRegs(op, ops.Rs1, ops.Rs2); err != nil {
		return 0, err
	}
	if err := checkImm(op, ops.Imm, 13, 2); err != nil {
		return 0, err
	}
	info := opTable[op]
	imm := uint32(ops.Imm)
	return Bits(imm, 12, 1)<<31 |
		Bits(imm, 5, 6)<<25 |
		uint32(ops.Rs2)<<20 |
		uint32(ops.Rs1)<<15 |
		info.funct3<<12 |
		Bits(imm, 1, 4)<<8 |
		Bits(imm, 11, 1)<<7 |
		info.opcode, nil
}

func encodeU(op Op, ops UpperOperands) (uint32, error) {
	if err := checkRegs(op, ops.Rd); err != nil {
		return 0, err
	}
	if ops.Imm&0xFFF != 0 {
		return 0, fmt.Errorf("%w: %s immediate %#x has low bits set", ErrNotEncodable, op, ops.Imm)
	}
	return uint32(ops.Imm) | uint32(ops.Rd)<<7 | opTable[op].opcode, nil
}

func encodeJ(ops JumpOperands) (uint32, error) {
	if err := checkRegs(OpJAL, ops.Rd); err != nil {
		return 0, err
	}
	if err := checkImm(OpJAL, ops.Imm, 21, 2); err != nil {
		return 0, err
	}
	imm := uint32(ops.Imm)
	return Bits(imm, 20, 1)<<31 |
		Bits(imm, 1, 10)<<21 |
		Bits(imm, 11, 1)<<20 |
		Bits(imm, 12, 8)<<12 |
		uint32(ops.Rd)<<7 |
		opcodeJAL, nil
}

func encodeFence(f Fence) (uint32, error) {
	if err := checkRegs(OpFENCE, f.Rd, f.Rs1); err != nil {
		return 0, err
	}
	if f.Fm > 0xF || f.Pred > 0xF || f.Succ > 0xF {
		return 0, fmt.Errorf("%w: fence field out of range", ErrNotEncodable)
	}
	return f.Fm<<28 |
		f.Pred<<24 |
		f.Succ<<20 |
		uint32(f.Rs1)<<15 |
		uint32(f.Rd)<<7 |
		opcodeFence, nil
}
