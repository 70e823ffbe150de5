// Package trace logs every executed instruction through logrus.
package trace

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/insts"
)

// Logger is an emu.Observer that writes one debug entry per instruction. The
// entry message is the disassembly; the fields hold the PC, the raw word, the
// outcome and every register the instruction changed.
type Logger struct {
	log logrus.FieldLogger
}

// NewLogger creates a Logger writing to log. Entries are emitted at debug
// level, so the logger's level decides whether tracing is visible.
func NewLogger(log logrus.FieldLogger) *Logger {
	return &Logger{log: log}
}

// Observe logs one executed instruction.
func (l *Logger) Observe(event emu.CycleEvent) {
	fields := logrus.Fields{
		"pc":      fmt.Sprintf("0x%08x", event.PC),
		"word":    fmt.Sprintf("0x%08x", event.Word),
		"outcome": event.Outcome.Kind.String(),
	}

	for i := 1; i < insts.NumRegisters; i++ {
		if event.Before.X[i] != event.After.X[i] {
			fields[insts.Register(i).ABIName()] = fmt.Sprintf("0x%x", event.After.X[i])
		}
	}

	if event.Outcome.Kind == emu.OutcomeTrap {
		fields["cause"] = event.Outcome.Cause.String()
	}

	l.log.WithFields(fields).Debug(insts.Disassemble(event.Inst))
}
