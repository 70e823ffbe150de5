package insts

// formatTable maps each 7-bit opcode to its encoding format. Opcodes outside
// RV64I map to FormatNone.
var formatTable = [128]Format{
	opcodeLoad:   FormatI,
	opcodeFence:  FormatI,
	opcodeOpImm:  FormatI,
	opcodeAUIPC:  FormatU,
	opcodeOpImmW: FormatI,
	opcodeStore:  FormatS,
	opcodeOp:     FormatR,
	opcodeLUI:    FormatU,
	opcodeOpW:    FormatR,
	opcodeBranch: FormatB,
	opcodeJALR:   FormatI,
	opcodeJAL:    FormatJ,
	opcodeSystem: FormatI,
}

// FormatOf returns the encoding format selected by the word's opcode.
func FormatOf(word uint32) Format {
	return formatTable[Opcode(word)]
}

// Decoder decodes RV64I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV64I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word.
func (d *Decoder) Decode(word uint32) Instruction {
	return Decode(word)
}

// Decode decodes a 32-bit instruction word. It never fails: words that do not
// match an RV64I encoding decode to Undefined.
func Decode(word uint32) Instruction {
	switch FormatOf(word) {
	case FormatR:
		return decodeR(word)
	case FormatI:
		return decodeI(word)
	case FormatS:
		return decodeS(word)
	case FormatB:
		return decodeB(word)
	case FormatU:
		return decodeU(word)
	case FormatJ:
		return decodeJ(word)
	default:
		return Undefined{}
	}
}

// decodeR decodes OP and OP-32 instructions.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
func decodeR(word uint32) Instruction {
	ops := RegOperands{Rd: Rd(word), Rs1: Rs1(word), Rs2: Rs2(word)}
	funct3 := Funct3(word)
	funct7 := Funct7(word)

	switch Opcode(word) {
	case opcodeOp:
		switch funct7 {
		case funct7Base:
			switch funct3 {
			case 0b000:
				return Add(ops)
			case 0b001:
				return Sll(ops)
			case 0b010:
				return Slt(ops)
			case 0b011:
				return Sltu(ops)
			case 0b100:
				return Xor(ops)
			case 0b101:
				return Srl(ops)
			case 0b110:
				return Or(ops)
			case 0b111:
				return And(ops)
			}
		case funct7Alt:
			switch funct3 {
			case 0b000:
				return Sub(ops)
			case 0b101:
				return Sra(ops)
			}
		}
	case opcodeOpW:
		switch funct7 {
		case funct7Base:
			switch funct3 {
			case 0b000:
				return Addw(ops)
			case 0b001:
				return Sllw(ops)
			case 0b101:
				return Srlw(ops)
			}
		case funct7Alt:
			switch funct3 {
			case 0b000:
				return Subw(ops)
			case 0b101:
				return Sraw(ops)
			}
		}
	}

	return Undefined{}
}

// decodeI decodes loads, FENCE, OP-IMM, OP-IMM-32, JALR and SYSTEM.
// Format: imm[11:0] | rs1 | funct3 | rd | opcode
func decodeI(word uint32) Instruction {
	ops := ImmOperands{Rd: Rd(word), Rs1: Rs1(word), Imm: ImmI(word)}
	funct3 := Funct3(word)

	switch Opcode(word) {
	case opcodeLoad:
		switch funct3 {
		case 0b000:
			return Lb(ops)
		case 0b001:
			return Lh(ops)
		case 0b010:
			return Lw(ops)
		case 0b011:
			return Ld(ops)
		case 0b100:
			return Lbu(ops)
		case 0b101:
			return Lhu(ops)
		case 0b110:
			return Lwu(ops)
		}

	case opcodeFence:
		if funct3 == 0b000 {
			return Fence{
				Rd:   ops.Rd,
				Rs1:  ops.Rs1,
				Succ: Bits(word, 20, 4),
				Pred: Bits(word, 24, 4),
				Fm:   Bits(word, 28, 4),
			}
		}

	case opcodeOpImm:
		switch funct3 {
		case 0b000:
			return Addi(ops)
		case 0b010:
			return Slti(ops)
		case 0b011:
			return Sltiu(ops)
		case 0b100:
			return Xori(ops)
		case 0b110:
			return Ori(ops)
		case 0b111:
			return Andi(ops)
		case 0b001, 0b101:
			return decodeShiftImm(word, funct3, false)
		}

	case opcodeOpImmW:
		switch funct3 {
		case 0b000:
			return Addiw(ops)
		case 0b001, 0b101:
			return decodeShiftImm(word, funct3, true)
		}

	case opcodeJALR:
		if funct3 == 0b000 {
			return Jalr(ops)
		}

	case opcodeSystem:
		if funct3 == 0b000 && ops.Rd == X0 && ops.Rs1 == X0 {
			switch ops.Imm {
			case 0:
				return Ecall{}
			case 1:
				return Ebreak{}
			}
		}
	}

	return Undefined{}
}

// decodeShiftImm decodes SLLI/SRLI/SRAI and their W forms. Bits [31:26] hold
// the shift type: 000000 for logical, 010000 (bit 30) for arithmetic. Bit 30
// is only consulted for right shifts and is never part of the shift amount.
func decodeShiftImm(word, funct3 uint32, isWord bool) Instruction {
	funct6 := Bits(word, 26, 6)
	if funct6&^0b010000 != 0 {
		return Undefined{}
	}

	ops := ShiftOperands{Rd: Rd(word), Rs1: Rs1(word), Shamt: Shamt64(word)}
	if isWord {
		ops.Shamt = Shamt32(word)
	}

	if funct3 == 0b001 {
		if funct6 != 0 {
			return Undefined{}
		}
		if isWord {
			return Slliw(ops)
		}
		return Slli(ops)
	}

	arithmetic := ShiftTypeBit(word) == 1
	switch {
	case isWord && arithmetic:
		return Sraiw(ops)
	case isWord:
		return Srliw(ops)
	case arithmetic:
		return Srai(ops)
	default:
		return Srli(ops)
	}
}

// decodeS decodes stores.
// Format: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
func decodeS(word uint32) Instruction {
	ops := StoreOperands{Rs1: Rs1(word), Rs2: Rs2(word), Imm: ImmS(word)}

	if Opcode(word) != opcodeStore {
		return Undefined{}
	}

	switch Funct3(word) {
	case 0b000:
		return Sb(ops)
	case 0b001:
		return Sh(ops)
	case 0b010:
		return Sw(ops)
	case 0b011:
		return Sd(ops)
	}

	return Undefined{}
}

// decodeB decodes conditional branches.
// Format: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | opcode
func decodeB(word uint32) Instruction {
	ops := BranchOperands{Rs1: Rs1(word), Rs2: Rs2(word), Imm: ImmB(word)}

	if Opcode(word) != opcodeBranch {
		return Undefined{}
	}

	switch Funct3(word) {
	case 0b000:
		return Beq(ops)
	case 0b001:
		return Bne(ops)
	case 0b100:
		return Blt(ops)
	case 0b101:
		return Bge(ops)
	case 0b110:
		return Bltu(ops)
	case 0b111:
		return Bgeu(ops)
	}

	return Undefined{}
}

// decodeU decodes LUI and AUIPC.
// Format: imm[31:12] | rd | opcode
func decodeU(word uint32) Instruction {
	ops := UpperOperands{Rd: Rd(word), Imm: ImmU(word)}

	switch Opcode(word) {
	case opcodeLUI:
		return Lui(ops)
	case opcodeAUIPC:
		return Auipc(ops)
	}

	return Undefined{}
}

// decodeJ decodes JAL.
// Format: imm[20|10:1|11|19:12] | rd | opcode
func decodeJ(word uint32) Instruction {
	if Opcode(word) != opcodeJAL {
		return Undefined{}
	}

	return Jal{Rd: Rd(word), Imm: ImmJ(word)}
}
