package insts

// Bits returns the unsigned field of the given width starting at bit lo.
func Bits(word uint32, lo, width uint) uint32 {
	return (word >> lo) & (1<<width - 1)
}

// SignExtend sign-extends the low width bits of value to 32 bits.
func SignExtend(value uint32, width uint) int32 {
	shift := 32 - width
	return int32(value<<shift) >> shift
}

// Opcode returns bits [6:0].
func Opcode(word uint32) uint32 { return Bits(word, 0, 7) }

// Rd returns the destination register field, bits [11:7].
func Rd(word uint32) Register { return RegisterFromIndex(Bits(word, 7, 5)) }

// Rs1 returns the first source register field, bits [19:15].
func Rs1(word uint32) Register { return RegisterFromIndex(Bits(word, 15, 5)) }

// Rs2 returns the second source register field, bits [24:20].
func Rs2(word uint32) Register { return RegisterFromIndex(Bits(word, 20, 5)) }

// Funct3 returns bits [14:12].
func Funct3(word uint32) uint32 { return Bits(word, 12, 3) }

// Funct7 returns bits [31:25].
func Funct7(word uint32) uint32 { return Bits(word, 25, 7) }

// ImmI reconstructs the I-type immediate: bits [31:20], 12 bits signed.
func ImmI(word uint32) int32 {
	return int32(word) >> 20
}

// ImmS reconstructs the S-type immediate: bits [31:25] | bits [11:7].
func ImmS(word uint32) int32 {
	imm := Bits(word, 25, 7)<<5 | Bits(word, 7, 5)
	return SignExtend(imm, 12)
}

// ImmB reconstructs the B-type immediate.
// imm[12] = bit 31, imm[11] = bit 7, imm[10:5] = bits [30:25],
// imm[4:1] = bits [11:8], imm[0] = 0.
func ImmB(word uint32) int32 {
	imm := Bits(word, 31, 1)<<12 |
		Bits(word, 7, 1)<<11 |
		Bits(word, 25, 6)<<5 |
		Bits(word, 8, 4)<<1
	return SignExtend(imm, 13)
}

// ImmU reconstructs the U-type immediate: bits [31:12] in place, low 12 bits
// zero. Bit 31 is already the sign bit.
func ImmU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// ImmJ reconstructs the J-type immediate.
// imm[20] = bit 31, imm[19:12] = bits [19:12], imm[11] = bit 20,
// imm[10:1] = bits [30:21], imm[0] = 0.
func ImmJ(word uint32) int32 {
	imm := Bits(word, 31, 1)<<20 |
		Bits(word, 12, 8)<<12 |
		Bits(word, 20, 1)<<11 |
		Bits(word, 21, 10)<<1
	return SignExtend(imm, 21)
}

// Shamt64 returns the 6-bit shift amount of a 64-bit shift-immediate.
func Shamt64(word uint32) uint32 { return Bits(word, 20, 6) }

// Shamt32 returns the 5-bit shift amount of a 32-bit shift-immediate.
func Shamt32(word uint32) uint32 { return Bits(word, 20, 5) }

// ShiftTypeBit returns bit 30, which selects arithmetic (1) over logical (0)
// right shifts in shift-immediate instructions.
func ShiftTypeBit(word uint32) uint32 { return Bits(word, 30, 1) }
