package emu

import (
	"errors"

	"github.com/sarchlab/rv64sim/insts"
)

// OutcomeKind classifies the effect of executing one instruction.
type OutcomeKind uint8

// Outcome kinds.
const (
	// OutcomeContinue advances to the next sequential PC.
	OutcomeContinue OutcomeKind = iota
	// OutcomeJump sets the PC to Target.
	OutcomeJump
	// OutcomeTrap hands control to the trap handler.
	OutcomeTrap
	// OutcomeHalt stops the run.
	OutcomeHalt
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeJump:
		return "jump"
	case OutcomeTrap:
		return "trap"
	case OutcomeHalt:
		return "halt"
	}
	return "unknown"
}

// Outcome is the result of executing one instruction.
type Outcome struct {
	Kind OutcomeKind

	// Target is the new PC for OutcomeJump.
	Target uint64

	// Cause and Addr describe an OutcomeTrap.
	Cause TrapCause
	Addr  uint64
}

func continueOutcome() Outcome { return Outcome{Kind: OutcomeContinue} }

func jumpOutcome(target uint64) Outcome {
	return Outcome{Kind: OutcomeJump, Target: target}
}

func trapOutcome(cause TrapCause) Outcome {
	return Outcome{Kind: OutcomeTrap, Cause: cause}
}

func faultOutcome(err error) Outcome {
	var fault *MemoryFault
	if errors.As(err, &fault) {
		return Outcome{Kind: OutcomeTrap, Cause: TrapMemoryFault, Addr: fault.Addr}
	}
	panic(err)
}

// Executor performs the architectural effect of a single instruction. It
// never changes the PC; the returned Outcome tells the caller where to go.
type Executor struct {
	regFile    *RegFile
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
}

// NewExecutor creates an executor operating on the given state.
func NewExecutor(regFile *RegFile, memory *Memory) *Executor {
	return &Executor{
		regFile:    regFile,
		alu:        NewALU(regFile),
		lsu:        NewLoadStoreUnit(regFile, memory),
		branchUnit: NewBranchUnit(regFile),
	}
}

// Execute performs one instruction. A trapping instruction leaves registers
// and memory unchanged.
func (x *Executor) Execute(inst insts.Instruction) Outcome {
	op := inst.Op()

	switch v := inst.(type) {
	case insts.Beq:
		return x.branch(op, insts.BranchOperands(v))
	case insts.Bne:
		return x.branch(op, insts.BranchOperands(v))
	case insts.Blt:
		return x.branch(op, insts.BranchOperands(v))
	case insts.Bge:
		return x.branch(op, insts.BranchOperands(v))
	case insts.Bltu:
		return x.branch(op, insts.BranchOperands(v))
	case insts.Bgeu:
		return x.branch(op, insts.BranchOperands(v))

	case insts.Lb:
		return x.load(op, insts.ImmOperands(v))
	case insts.Lh:
		return x.load(op, insts.ImmOperands(v))
	case insts.Lw:
		return x.load(op, insts.ImmOperands(v))
	case insts.Ld:
		return x.load(op, insts.ImmOperands(v))
	case insts.Lbu:
		return x.load(op, insts.ImmOperands(v))
	case insts.Lhu:
		return x.load(op, insts.ImmOperands(v))
	case insts.Lwu:
		return x.load(op, insts.ImmOperands(v))

	case insts.Sb:
		return x.store(op, insts.StoreOperands(v))
	case insts.Sh:
		return x.store(op, insts.StoreOperands(v))
	case insts.Sw:
		return x.store(op, insts.StoreOperands(v))
	case insts.Sd:
		return x.store(op, insts.StoreOperands(v))

	case insts.Addi:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))
	case insts.Slti:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))
	case insts.Sltiu:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))
	case insts.Xori:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))
	case insts.Ori:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))
	case insts.Andi:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))
	case insts.Addiw:
		x.alu.ExecuteImm(op, insts.ImmOperands(v))

	case insts.Slli:
		x.alu.ExecuteShift(op, insts.ShiftOperands(v))
	case insts.Srli:
		x.alu.ExecuteShift(op, insts.ShiftOperands(v))
	case insts.Srai:
		x.alu.ExecuteShift(op, insts.ShiftOperands(v))
	case insts.Slliw:
		x.alu.ExecuteShift(op, insts.ShiftOperands(v))
	case insts.Srliw:
		x.alu.ExecuteShift(op, insts.ShiftOperands(v))
	case insts.Sraiw:
		x.alu.ExecuteShift(op, insts.ShiftOperands(v))

	case insts.Add:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Sub:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Sll:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Slt:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Sltu:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Xor:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Srl:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Sra:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Or:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.And:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Addw:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Subw:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Sllw:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Srlw:
		x.alu.ExecuteReg(op, insts.RegOperands(v))
	case insts.Sraw:
		x.alu.ExecuteReg(op, insts.RegOperands(v))

	case insts.Lui:
		x.alu.LUI(insts.UpperOperands(v))
	case insts.Auipc:
		x.alu.AUIPC(insts.UpperOperands(v))

	case insts.Jal:
		return jumpOutcome(x.branchUnit.JAL(insts.JumpOperands(v)))
	case insts.Jalr:
		return jumpOutcome(x.branchUnit.JALR(insts.ImmOperands(v)))

	case insts.Fence:
		// Single hart, in-order memory: nothing to order.
	case insts.Ecall:
		return trapOutcome(TrapEnvironmentCall)
	case insts.Ebreak:
		return trapOutcome(TrapBreakpoint)
	default:
		return trapOutcome(TrapIllegalInstruction)
	}

	return continueOutcome()
}

func (x *Executor) branch(op insts.Op, ops insts.BranchOperands) Outcome {
	target, taken := x.branchUnit.Branch(op, ops)
	if !taken {
		return continueOutcome()
	}
	return jumpOutcome(target)
}

func (x *Executor) load(op insts.Op, ops insts.ImmOperands) Outcome {
	if err := x.lsu.Load(op, ops); err != nil {
		return faultOutcome(err)
	}
	return continueOutcome()
}

func (x *Executor) store(op insts.Op, ops insts.StoreOperands) Outcome {
	if err := x.lsu.Store(op, ops); err != nil {
		return faultOutcome(err)
	}
	return continueOutcome()
}
