// Package insts provides RV64I instruction definitions, decoding and encoding.
//
// This package implements decoding of RISC-V machine code into structured
// instruction values. It supports the whole RV64I base integer set:
//   - Branches: BEQ, BNE, BLT, BGE, BLTU, BGEU
//   - Loads and stores: LB, LH, LW, LD, LBU, LHU, LWU, SB, SH, SW, SD
//   - Register and immediate ALU operations, including the 32-bit "W" forms
//   - Jumps (JAL, JALR), upper immediates (LUI, AUIPC), FENCE, ECALL, EBREAK
//
// Every 32-bit word decodes to some Instruction. Words that match no known
// encoding decode to Undefined.
//
// Usage:
//
//	inst := insts.Decode(0x00010537) // lui a0, 0x10
//	if lui, ok := inst.(insts.Lui); ok {
//		fmt.Printf("rd=%v imm=%#x\n", lui.Rd, lui.Imm)
//	}
package insts
