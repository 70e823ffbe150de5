package insts

// Op represents an RV64I operation.
type Op uint8

// RV64I operations.
const (
	OpUndefined Op = iota

	// Branches
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	// Loads
	OpLB
	OpLH
	OpLW
	OpLD
	OpLBU
	OpLHU
	OpLWU

	// Stores
	OpSB
	OpSH
	OpSW
	OpSD

	// Immediate ALU
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW

	// Register ALU
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	// Jumps and upper immediates
	OpJAL
	OpJALR
	OpLUI
	OpAUIPC

	// System
	OpFENCE
	OpECALL
	OpEBREAK

	numOps
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatNone Format = iota // opcode is not part of RV64I
	FormatR
	FormatI
	FormatS
	FormatB
	FormatU
	FormatJ
)

var formatNames = [...]string{"none", "R", "I", "S", "B", "U", "J"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "invalid"
}

// opInfo describes where an operation lives in the encoding space.
type opInfo struct {
	name   string
	format Format
	opcode uint32
	funct3 uint32
	funct7 uint32 // R-type funct7, or imm[11:5] for shift-immediates
}

// Base opcodes.
const (
	opcodeLoad   uint32 = 0b0000011
	opcodeFence  uint32 = 0b0001111
	opcodeOpImm  uint32 = 0b0010011
	opcodeAUIPC  uint32 = 0b0010111
	opcodeOpImmW uint32 = 0b0011011
	opcodeStore  uint32 = 0b0100011
	opcodeOp     uint32 = 0b0110011
	opcodeLUI    uint32 = 0b0110111
	opcodeOpW    uint32 = 0b0111011
	opcodeBranch uint32 = 0b1100011
	opcodeJALR   uint32 = 0b1100111
	opcodeJAL    uint32 = 0b1101111
	opcodeSystem uint32 = 0b1110011
)

const (
	funct7Base uint32 = 0b0000000
	funct7Alt  uint32 = 0b0100000
)

var opTable = [numOps]opInfo{
	OpUndefined: {name: "undefined", format: FormatNone},

	OpBEQ:  {"beq", FormatB, opcodeBranch, 0b000, 0},
	OpBNE:  {"bne", FormatB, opcodeBranch, 0b001, 0},
	OpBLT:  {"blt", FormatB, opcodeBranch, 0b100, 0},
	OpBGE:  {"bge", FormatB, opcodeBranch, 0b101, 0},
	OpBLTU: {"bltu", FormatB, opcodeBranch, 0b110, 0},
	OpBGEU: {"bgeu", FormatB, opcodeBranch, 0b111, 0},

	OpLB:  {"lb", FormatI, opcodeLoad, 0b000, 0},
	OpLH:  {"lh", FormatI, opcodeLoad, 0b001, 0},
	OpLW:  {"lw", FormatI, opcodeLoad, 0b010, 0},
	OpLD:  {"ld", FormatI, opcodeLoad, 0b011, 0},
	OpLBU: {"lbu", FormatI, opcodeLoad, 0b100, 0},
	OpLHU: {"lhu", FormatI, opcodeLoad, 0b101, 0},
	OpLWU: {"lwu", FormatI, opcodeLoad, 0b110, 0},

	OpSB: {"sb", FormatS, opcodeStore, 0b000, 0},
	OpSH: {"sh", FormatS, opcodeStore, 0b001, 0},
	OpSW: {"sw", FormatS, opcodeStore, 0b010, 0},
	OpSD: {"sd", FormatS, opcodeStore, 0b011, 0},

	OpADDI:  {"addi", FormatI, opcodeOpImm, 0b000, 0},
	OpSLTI:  {"slti", FormatI, opcodeOpImm, 0b010, 0},
	OpSLTIU: {"sltiu", FormatI, opcodeOpImm, 0b011, 0},
	OpXORI:  {"xori", FormatI, opcodeOpImm, 0b100, 0},
	OpORI:   {"ori", FormatI, opcodeOpImm, 0b110, 0},
	OpANDI:  {"andi", FormatI, opcodeOpImm, 0b111, 0},
	OpSLLI:  {"slli", FormatI, opcodeOpImm, 0b001, funct7Base},
	OpSRLI:  {"srli", FormatI, opcodeOpImm, 0b101, funct7Base},
	OpSRAI:  {"srai", FormatI, opcodeOpImm, 0b101, funct7Alt},
	OpADDIW: {"addiw", FormatI, opcodeOpImmW, 0b000, 0},
	OpSLLIW: {"slliw", FormatI, opcodeOpImmW, 0b001, funct7Base},
	OpSRLIW: {"srliw", FormatI, opcodeOpImmW, 0b101, funct7Base},
	OpSRAIW: {"sraiw", FormatI, opcodeOpImmW, 0b101, funct7Alt},

	OpADD:  {"add", FormatR, opcodeOp, 0b000, funct7Base},
	OpSUB:  {"sub", FormatR, opcodeOp, 0b000, funct7Alt},
	OpSLL:  {"sll", FormatR, opcodeOp, 0b001, funct7Base},
	OpSLT:  {"slt", FormatR, opcodeOp, 0b010, funct7Base},
	OpSLTU: {"sltu", FormatR, opcodeOp, 0b011, funct7Base},
	OpXOR:  {"xor", FormatR, opcodeOp, 0b100, funct7Base},
	OpSRL:  {"srl", FormatR, opcodeOp, 0b101, funct7Base},
	OpSRA:  {"sra", FormatR, opcodeOp, 0b101, funct7Alt},
	OpOR:   {"or", FormatR, opcodeOp, 0b110, funct7Base},
	OpAND:  {"and", FormatR, opcodeOp, 0b111, funct7Base},
	OpADDW: {"addw", FormatR, opcodeOpW, 0b000, funct7Base},
	OpSUBW: {"subw", FormatR, opcodeOpW, 0b000, funct7Alt},
	OpSLLW: {"sllw", FormatR, opcodeOpW, 0b001, funct7Base},
	OpSRLW: {"srlw", FormatR, opcodeOpW, 0b101, funct7Base},
	OpSRAW: {"sraw", FormatR, opcodeOpW, 0b101, funct7Alt},

	OpJAL:   {"jal", FormatJ, opcodeJAL, 0, 0},
	OpJALR:  {"jalr", FormatI, opcodeJALR, 0b000, 0},
	OpLUI:   {"lui", FormatU, opcodeLUI, 0, 0},
	OpAUIPC: {"auipc", FormatU, opcodeAUIPC, 0, 0},

	OpFENCE:  {"fence", FormatI, opcodeFence, 0b000, 0},
	OpECALL:  {"ecall", FormatI, opcodeSystem, 0b000, 0},
	OpEBREAK: {"ebreak", FormatI, opcodeSystem, 0b000, 0},
}

// String returns the assembler mnemonic of the operation.
func (o Op) String() string {
	if o < numOps {
		return opTable[o].name
	}
	return "invalid"
}

// Format returns the encoding format of the operation.
func (o Op) Format() Format {
	if o < numOps {
		return opTable[o].format
	}
	return FormatNone
}

// Instruction is a decoded RV64I instruction. The set of implementations is
// closed: every variant is one of the types declared in this file.
type Instruction interface {
	Op() Op
}

// BranchOperands are the operands of a conditional branch.
// Imm is the signed byte offset from the branch's own address.
type BranchOperands struct {
	Rs1 Register
	Rs2 Register
	Imm int32
}

// ImmOperands are the operands of loads, immediate ALU operations and JALR.
type ImmOperands struct {
	Rd  Register
	Rs1 Register
	Imm int32
}

// ShiftOperands are the operands of a shift-immediate instruction.
type ShiftOperands struct {
	Rd    Register
	Rs1   Register
	Shamt uint32
}

// StoreOperands are the operands of a store: mem[Rs1+Imm] = Rs2.
type StoreOperands struct {
	Rs1 Register
	Rs2 Register
	Imm int32
}

// RegOperands are the operands of a register-register ALU operation.
type RegOperands struct {
	Rd  Register
	Rs1 Register
	Rs2 Register
}

// UpperOperands are the operands of LUI and AUIPC. Imm already holds the
// value shifted into bits [31:12].
type UpperOperands struct {
	Rd  Register
	Imm int32
}

// JumpOperands are the operands of JAL.
type JumpOperands struct {
	Rd  Register
	Imm int32
}

// Branches.
type (
	Beq  BranchOperands
	Bne  BranchOperands
	Blt  BranchOperands
	Bge  BranchOperands
	Bltu BranchOperands
	Bgeu BranchOperands
)

// Loads.
type (
	Lb  ImmOperands
	Lh  ImmOperands
	Lw  ImmOperands
	Ld  ImmOperands
	Lbu ImmOperands
	Lhu ImmOperands
	Lwu ImmOperands
)

// Stores.
type (
	Sb StoreOperands
	Sh StoreOperands
	Sw StoreOperands
	Sd StoreOperands
)

// Immediate ALU operations.
type (
	Addi  ImmOperands
	Slti  ImmOperands
	Sltiu ImmOperands
	Xori  ImmOperands
	Ori   ImmOperands
	Andi  ImmOperands
	Addiw ImmOperands
)

// Shift-immediate operations.
type (
	Slli  ShiftOperands
	Srli  ShiftOperands
	Srai  ShiftOperands
	Slliw ShiftOperands
	Srliw ShiftOperands
	Sraiw ShiftOperands
)

// Register ALU operations.
type (
	Add  RegOperands
	Sub  RegOperands
	Sll  RegOperands
	Slt  RegOperands
	Sltu RegOperands
	Xor  RegOperands
	Srl  RegOperands
	Sra  RegOperands
	Or   RegOperands
	And  RegOperands
	Addw RegOperands
	Subw RegOperands
	Sllw RegOperands
	Srlw RegOperands
	Sraw RegOperands
)

// Jumps and upper immediates.
type (
	Jal   JumpOperands
	Jalr  ImmOperands
	Lui   UpperOperands
	Auipc UpperOperands
)

// Fence orders memory accesses. It has no effect on a single hart.
type Fence struct {
	Rd   Register
	Rs1  Register
	Pred uint32
	Succ uint32
	Fm   uint32
}

// Ecall requests a service from the execution environment.
type Ecall struct{}

// Ebreak returns control to a debugging environment.
type Ebreak struct{}

// Undefined is any word that matches no RV64I encoding.
type Undefined struct{}

func (Beq) Op() Op  { return OpBEQ }
func (Bne) Op() Op  { return OpBNE }
func (Blt) Op() Op  { return OpBLT }
func (Bge) Op() Op  { return OpBGE }
func (Bltu) Op() Op { return OpBLTU }
func (Bgeu) Op() Op { return OpBGEU }

func (Lb) Op() Op  { return OpLB }
func (Lh) Op() Op  { return OpLH }
func (Lw) Op() Op  { return OpLW }
func (Ld) Op() Op  { return OpLD }
func (Lbu) Op() Op { return OpLBU }
func (Lhu) Op() Op { return OpLHU }
func (Lwu) Op() Op { return OpLWU }

func (Sb) Op() Op { return OpSB }
func (Sh) Op() Op { return OpSH }
func (Sw) Op() Op { return OpSW }
func (Sd) Op() Op { return OpSD }

func (Addi) Op() Op  { return OpADDI }
func (Slti) Op() Op  { return OpSLTI }
func (Sltiu) Op() Op { return OpSLTIU }
func (Xori) Op() Op  { return OpXORI }
func (Ori) Op() Op   { return OpORI }
func (Andi) Op() Op  { return OpANDI }
func (Addiw) Op() Op { return OpADDIW }

func (Slli) Op() Op  { return OpSLLI }
func (Srli) Op() Op  { return OpSRLI }
func (Srai) Op() Op  { return OpSRAI }
func (Slliw) Op() Op { return OpSLLIW }
func (Srliw) Op() Op { return OpSRLIW }
func (Sraiw) Op() Op { return OpSRAIW }

func (Add) Op() Op  { return OpADD }
func (Sub) Op() Op  { return OpSUB }
func (Sll) Op() Op  { return OpSLL }
func (Slt) Op() Op  { return OpSLT }
func (Sltu) Op() Op { return OpSLTU }
func (Xor) Op() Op  { return OpXOR }
func (Srl) Op() Op  { return OpSRL }
func (Sra) Op() Op  { return OpSRA }
func (Or) Op() Op   { return OpOR }
func (And) Op() Op  { return OpAND }
func (Addw) Op() Op { return OpADDW }
func (Subw) Op() Op { return OpSUBW }
func (Sllw) Op() Op { return OpSLLW }
func (Srlw) Op() Op { return OpSRLW }
func (Sraw) Op() Op { return OpSRAW }

func (Jal) Op() Op   { return OpJAL }
func (Jalr) Op() Op  { return OpJALR }
func (Lui) Op() Op   { return OpLUI }
func (Auipc) Op() Op { return OpAUIPC }

func (Fence) Op() Op     { return OpFENCE }
func (Ecall) Op() Op     { return OpECALL }
func (Ebreak) Op() Op    { return OpEBREAK }
func (Undefined) Op() Op { return OpUndefined }
