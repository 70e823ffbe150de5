// Package latency provides instruction timing models for the RV64I core.
//
// Latencies are grouped by instruction class and can be configured via
// TimingConfig.
package latency

import (
	"github.com/sarchlab/rv64sim/insts"
)

// Class groups instructions that share a latency.
type Class uint8

// Instruction classes.
const (
	ClassALU Class = iota
	ClassBranch
	ClassJump
	ClassLoad
	ClassStore
	ClassFence
	ClassSystem
)

func (c Class) String() string {
	switch c {
	case ClassALU:
		return "alu"
	case ClassBranch:
		return "branch"
	case ClassJump:
		return "jump"
	case ClassLoad:
		return "load"
	case ClassStore:
		return "store"
	case ClassFence:
		return "fence"
	case ClassSystem:
		return "system"
	}
	return "unknown"
}

// ClassOf returns the latency class of an operation. Undefined instructions
// are classed as system instructions since they trap.
func ClassOf(op insts.Op) Class {
	switch {
	case op >= insts.OpBEQ && op <= insts.OpBGEU:
		return ClassBranch
	case op >= insts.OpLB && op <= insts.OpLWU:
		return ClassLoad
	case op >= insts.OpSB && op <= insts.OpSD:
		return ClassStore
	}

	switch op {
	case insts.OpJAL, insts.OpJALR:
		return ClassJump
	case insts.OpFENCE:
		return ClassFence
	case insts.OpECALL, insts.OpEBREAK, insts.OpUndefined:
		return ClassSystem
	}

	return ClassALU
}

// Access describes the memory operand of a load or store. Value is the
// source register of a store.
type Access struct {
	Base   insts.Register
	Value  insts.Register
	Offset int32
	Size   int
	Store  bool
}

// Address returns the effective address given the base register value.
func (a Access) Address(base uint64) uint64 {
	return base + uint64(int64(a.Offset))
}

// MemoryAccess returns the memory operand of a load or store.
func MemoryAccess(inst insts.Instruction) (Access, bool) {
	switch v := inst.(type) {
	case insts.Lb:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 1}, true
	case insts.Lbu:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 1}, true
	case insts.Lh:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 2}, true
	case insts.Lhu:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 2}, true
	case insts.Lw:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 4}, true
	case insts.Lwu:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 4}, true
	case insts.Ld:
		return Access{Base: v.Rs1, Offset: v.Imm, Size: 8}, true
	case insts.Sb:
		return Access{Base: v.Rs1, Value: v.Rs2, Offset: v.Imm, Size: 1, Store: true}, true
	case insts.Sh:
		return Access{Base: v.Rs1, Value: v.Rs2, Offset: v.Imm, Size: 2, Store: true}, true
	case insts.Sw:
		return Access{Base: v.Rs1, Value: v.Rs2, Offset: v.Imm, Size: 4, Store: true}, true
	case insts.Sd:
		return Access{Base: v.Rs1, Value: v.Rs2, Offset: v.Imm, Size: 8, Store: true}, true
	}
	return Access{}, false
}

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given instruction.
func (t *Table) GetLatency(inst insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch ClassOf(inst.Op()) {
	case ClassALU:
		return t.config.ALULatency
	case ClassBranch, ClassJump:
		return t.config.BranchLatency
	case ClassLoad:
		return t.config.LoadLatency
	case ClassStore:
		return t.config.StoreLatency
	case ClassFence:
		return t.config.FenceLatency
	case ClassSystem:
		return t.config.SyscallLatency
	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(inst insts.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst insts.Instruction) bool {
	return inst != nil && ClassOf(inst.Op()) == ClassLoad
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst insts.Instruction) bool {
	return inst != nil && ClassOf(inst.Op()) == ClassStore
}

// IsBranchOp returns true if the instruction is a conditional branch or a
// jump.
func (t *Table) IsBranchOp(inst insts.Instruction) bool {
	if inst == nil {
		return false
	}
	class := ClassOf(inst.Op())
	return class == ClassBranch || class == ClassJump
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
