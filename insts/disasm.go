package insts

import "fmt"

// Disassemble renders an instruction in assembler syntax using ABI register
// names, e.g. "addi a0, zero, 5" or "sd ra, 8(sp)".
func Disassemble(inst Instruction) string {
	name := inst.Op().String()

	switch v := inst.(type) {
	case Beq:
		return fmtBranch(name, BranchOperands(v))
	case Bne:
		return fmtBranch(name, BranchOperands(v))
	case Blt:
		return fmtBranch(name, BranchOperands(v))
	case Bge:
		return fmtBranch(name, BranchOperands(v))
	case Bltu:
		return fmtBranch(name, BranchOperands(v))
	case Bgeu:
		return fmtBranch(name, BranchOperands(v))

	case Lb:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Lh:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Lw:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Ld:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Lbu:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Lhu:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Lwu:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)
	case Jalr:
		return fmtMem(name, v.Rd, v.Rs1, v.Imm)

	case Sb:
		return fmtMem(name, v.Rs2, v.Rs1, v.Imm)
	case Sh:
		return fmtMem(name, v.Rs2, v.Rs1, v.Imm)
	case Sw:
		return fmtMem(name, v.Rs2, v.Rs1, v.Imm)
	case Sd:
		return fmtMem(name, v.Rs2, v.Rs1, v.Imm)

	case Addi:
		return fmtImm(name, ImmOperands(v))
	case Slti:
		return fmtImm(name, ImmOperands(v))
	case Sltiu:
		return fmtImm(name, ImmOperands(v))
	case Xori:
		return fmtImm(name, ImmOperands(v))
	case Ori:
		return fmtImm(name, ImmOperands(v))
	case Andi:
		return fmtImm(name, ImmOperands(v))
	case Addiw:
		return fmtImm(name, ImmOperands(v))

	case Slli:
		return fmtShift(name, ShiftOperands(v))
	case Srli:
		return fmtShift(name, ShiftOperands(v))
	case Srai:
		return fmtShift(name, ShiftOperands(v))
	case Slliw:
		return fmtShift(name, ShiftOperands(v))
	case Srliw:
		return fmtShift(name, ShiftOperands(v))
	case Sraiw:
		return fmtShift(name, ShiftOperands(v))

	case Add:
		return fmtReg(name, RegOperands(v))
	case Sub:
		return fmtReg(name, RegOperands(v))
	case Sll:
		return fmtReg(name, RegOperands(v))
	case Slt:
		return fmtReg(name, RegOperands(v))
	case Sltu:
		return fmtReg(name, RegOperands(v))
	case Xor:
		return fmtReg(name, RegOperands(v))
	case Srl:
		return fmtReg(name, RegOperands(v))
	case Sra:
		return fmtReg(name, RegOperands(v))
	case Or:
		return fmtReg(name, RegOperands(v))
	case And:
		return fmtReg(name, RegOperands(v))
	case Addw:
		return fmtReg(name, RegOperands(v))
	case Subw:
		return fmtReg(name, RegOperands(v))
	case Sllw:
		return fmtReg(name, RegOperands(v))
	case Srlw:
		return fmtReg(name, RegOperands(v))
	case Sraw:
		return fmtReg(name, RegOperands(v))

	case Jal:
		return fmt.Sprintf("%s %s, %d", name, v.Rd.ABIName(), v.Imm)
	case Lui:
		return fmt.Sprintf("%s %s, %#x", name, v.Rd.ABIName(), uint32(v.Imm)>>12)
	case Auipc:
		return fmt.Sprintf("%s %s, %#x", name, v.Rd.ABIName(), uint32(v.Imm)>>12)

	case Fence:
		return fmt.Sprintf("%s %s, %s", name, fenceSet(v.Pred), fenceSet(v.Succ))
	}

	return name
}

func fmtBranch(name string, ops BranchOperands) string {
	return fmt.Sprintf("%s %s, %s, %d", name, ops.Rs1.ABIName(), ops.Rs2.ABIName(), ops.Imm)
}

func fmtMem(name string, reg, base Register, imm int32) string {
	return fmt.Sprintf("%s %s, %d(%s)", name, reg.ABIName(), imm, base.ABIName())
}

func fmtImm(name string, ops ImmOperands) string {
	return fmt.Sprintf("%s %s, %s, %d", name, ops.Rd.ABIName(), ops.Rs1.ABIName(), ops.Imm)
}

func fmtShift(name string, ops ShiftOperands) string {
	return fmt.Sprintf("%s %s, %s, %d", name, ops.Rd.ABIName(), ops.Rs1.ABIName(), ops.Shamt)
}

func fmtReg(name string, ops RegOperands) string {
	return fmt.Sprintf("%s %s, %s, %s", name, ops.Rd.ABIName(), ops.Rs1.ABIName(), ops.Rs2.ABIName())
}

// fenceSet renders a predecessor/successor set as a subset of "iorw".
func fenceSet(bits uint32) string {
	s := ""
	for i, c := range "iorw" {
		if bits&(1<<(3-i)) != 0 {
			s += string(c)
		}
	}
	if s == "" {
		return "0"
	}
	return s
}
