package emu

import "github.com/sarchlab/rv64sim/insts"

// CycleEvent describes one executed instruction. Before and After are
// snapshots of the register file around the instruction, including any trap
// handling.
type CycleEvent struct {
	PC      uint64
	Word    uint32
	Inst    insts.Instruction
	Before  RegFile
	After   RegFile
	Outcome Outcome
}

// Observer receives an event for every executed instruction.
type Observer interface {
	Observe(event CycleEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(event CycleEvent)

// Observe calls f.
func (f ObserverFunc) Observe(event CycleEvent) {
	f(event)
}

type multiObserver []Observer

func (m multiObserver) Observe(event CycleEvent) {
	for _, o := range m {
		o.Observe(event)
	}
}
