package emu

import (
	"fmt"

	"github.com/sarchlab/rv64sim/insts"
)

// TrapCause identifies why execution left the normal sequential flow.
type TrapCause uint8

// Trap causes.
const (
	TrapNone TrapCause = iota
	TrapEnvironmentCall
	TrapBreakpoint
	TrapIllegalInstruction
	TrapMemoryFault
	TrapMisalignedFetch
)

func (c TrapCause) String() string {
	switch c {
	case TrapNone:
		return "none"
	case TrapEnvironmentCall:
		return "environment call"
	case TrapBreakpoint:
		return "breakpoint"
	case TrapIllegalInstruction:
		return "illegal instruction"
	case TrapMemoryFault:
		return "memory fault"
	case TrapMisalignedFetch:
		return "misaligned fetch"
	}
	return fmt.Sprintf("TrapCause(%d)", uint8(c))
}

// Trap describes a trap raised by the instruction at PC.
type Trap struct {
	Cause TrapCause

	// PC is the address of the trapping instruction.
	PC uint64

	// Word is the raw instruction word. It is zero for fetch traps.
	Word uint32

	// Addr is the faulting data address for TrapMemoryFault.
	Addr uint64
}

// TrapError is the diagnostic reported when a trap halts the run.
type TrapError struct {
	Trap
}

func (e *TrapError) Error() string {
	switch e.Cause {
	case TrapMisalignedFetch:
		return fmt.Sprintf("%s at PC=0x%X", e.Cause, e.PC)
	case TrapMemoryFault:
		return fmt.Sprintf("%s at PC=0x%X (word 0x%08X, %s): address 0x%X",
			e.Cause, e.PC, e.Word, insts.Disassemble(insts.Decode(e.Word)), e.Addr)
	}
	return fmt.Sprintf("%s at PC=0x%X (word 0x%08X, %s)",
		e.Cause, e.PC, e.Word, insts.Disassemble(insts.Decode(e.Word)))
}

// TrapAction is a trap handler's decision: resume at PC, or halt.
type TrapAction struct {
	// Halt stops the run. ExitCode and Err are reported in the StepResult.
	Halt     bool
	ExitCode int64
	Err      error

	// PC is the resume address when Halt is false.
	PC uint64
}

// Resume continues execution at pc.
func Resume(pc uint64) TrapAction {
	return TrapAction{PC: pc}
}

// Halt stops the run with the given exit code.
func Halt(exitCode int64) TrapAction {
	return TrapAction{Halt: true, ExitCode: exitCode}
}

// Fail stops the run with an error.
func Fail(err error) TrapAction {
	return TrapAction{Halt: true, ExitCode: -1, Err: err}
}

// TrapHandler decides what happens after a trap. It may inspect and modify
// the architectural state.
type TrapHandler interface {
	HandleTrap(trap Trap, regFile *RegFile, memory *Memory) TrapAction
}

// TrapHandlerFunc adapts a function to TrapHandler.
type TrapHandlerFunc func(trap Trap, regFile *RegFile, memory *Memory) TrapAction

// HandleTrap calls f.
func (f TrapHandlerFunc) HandleTrap(trap Trap, regFile *RegFile, memory *Memory) TrapAction {
	return f(trap, regFile, memory)
}
