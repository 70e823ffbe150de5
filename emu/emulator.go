package emu

import (
	"context"
	"errors"

	"github.com/sarchlab/rv64sim/insts"
)

// ErrMaxInstructions is reported when the instruction limit is reached.
var ErrMaxInstructions = errors.New("max instructions reached")

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the run reached the Halted state.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Err is set if the run stopped abnormally. A fatal trap reports a
	// *TrapError.
	Err error
}

// Emulator executes RV64I instructions functionally over a flat memory image.
type Emulator struct {
	regFile     *RegFile
	memory      *Memory
	decoder     *insts.Decoder
	executor    *Executor
	trapHandler TrapHandler
	observer    Observer

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
	halted           *StepResult
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithTrapHandler sets the handler consulted on every trap. Without one,
// every trap halts the run with a *TrapError.
func WithTrapHandler(handler TrapHandler) EmulatorOption {
	return func(e *Emulator) {
		e.trapHandler = handler
	}
}

// WithInstrumentation adds an observer notified after every instruction.
func WithInstrumentation(observer Observer) EmulatorOption {
	return func(e *Emulator) {
		if e.observer == nil {
			e.observer = observer
			return
		}
		e.observer = append(multiObserver{e.observer}, observer)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithEntryPoint sets the initial program counter.
func WithEntryPoint(pc uint64) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.PC = pc
	}
}

// WithStackPointer sets the initial stack pointer (x2).
func WithStackPointer(sp uint64) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.WriteReg(insts.SP, sp)
	}
}

// NewEmulator creates an emulator that runs the given memory image. All
// registers start at zero and execution begins at PC 0 unless WithEntryPoint
// is given.
func NewEmulator(memory *Memory, opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}

	e := &Emulator{
		regFile:  regFile,
		memory:   memory,
		decoder:  insts.NewDecoder(),
		executor: NewExecutor(regFile, memory),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted reports whether the run has reached the Halted state.
func (e *Emulator) Halted() bool {
	return e.halted != nil
}

// Step fetches, decodes and executes a single instruction. Once the run has
// halted, Step keeps returning the halting result.
func (e *Emulator) Step() StepResult {
	if e.halted != nil {
		return *e.halted
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	pc := e.regFile.PC

	// Fetch
	if pc%4 != 0 {
		return e.trap(Trap{Cause: TrapMisalignedFetch, PC: pc})
	}
	if !e.memory.Contains(pc, 4) {
		return e.halt(StepResult{Exited: true})
	}
	word, _ := e.memory.Read32(pc)

	// Decode
	inst := e.decoder.Decode(word)

	// Execute
	var before RegFile
	if e.observer != nil {
		before = *e.regFile
	}

	outcome := e.executor.Execute(inst)
	e.instructionCount++

	result := e.apply(pc, word, outcome)

	if e.observer != nil {
		e.observer.Observe(CycleEvent{
			PC:      pc,
			Word:    word,
			Inst:    inst,
			Before:  before,
			After:   *e.regFile,
			Outcome: outcome,
		})
	}

	return result
}

func (e *Emulator) apply(pc uint64, word uint32, outcome Outcome) StepResult {
	switch outcome.Kind {
	case OutcomeContinue:
		e.regFile.PC = pc + 4
	case OutcomeJump:
		e.regFile.PC = outcome.Target
	case OutcomeTrap:
		return e.trap(Trap{
			Cause: outcome.Cause,
			PC:    pc,
			Word:  word,
			Addr:  outcome.Addr,
		})
	case OutcomeHalt:
		return e.halt(StepResult{Exited: true})
	}

	return StepResult{}
}

func (e *Emulator) trap(t Trap) StepResult {
	var action TrapAction
	if e.trapHandler != nil {
		action = e.trapHandler.HandleTrap(t, e.regFile, e.memory)
	} else {
		action = Fail(&TrapError{Trap: t})
	}

	if !action.Halt {
		e.regFile.PC = action.PC
		return StepResult{}
	}

	return e.halt(StepResult{
		Exited:   true,
		ExitCode: action.ExitCode,
		Err:      action.Err,
	})
}

func (e *Emulator) halt(result StepResult) StepResult {
	e.halted = &result
	return result
}

// Run executes instructions until the program halts or an error occurs.
func (e *Emulator) Run() StepResult {
	return e.RunContext(context.Background())
}

// RunContext is like Run but stops with ctx.Err() when ctx is done. The
// context is checked between instructions.
func (e *Emulator) RunContext(ctx context.Context) StepResult {
	for {
		if err := ctx.Err(); err != nil {
			return StepResult{Err: err}
		}

		result := e.Step()
		if result.Exited || result.Err != nil {
			return result
		}
	}
}
