package insts

import "fmt"

// Register identifies one of the 32 general-purpose registers, or the
// program counter.
type Register uint8

// General-purpose registers. X0 is hardwired to zero.
const (
	X0 Register = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	X30
	X31

	// PC is the program counter. It has no index in the register file.
	PC
)

// ABI register aliases.
const (
	Zero = X0
	RA   = X1
	SP   = X2
	GP   = X3
	TP   = X4
	T0   = X5
	T1   = X6
	T2   = X7
	S0   = X8
	FP   = X8
	S1   = X9
	A0   = X10
	A1   = X11
	A2   = X12
	A3   = X13
	A4   = X14
	A5   = X15
	A6   = X16
	A7   = X17
	S2   = X18
	S3   = X19
	S4   = X20
	S5   = X21
	S6   = X22
	S7   = X23
	S8   = X24
	S9   = X25
	S10  = X26
	S11  = X27
	T3   = X28
	T4   = X29
	T5   = X30
	T6   = X31
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 32

var abiNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterFromIndex maps an index to a general-purpose register. Only the low
// five bits of index are used, so every input maps to some register.
func RegisterFromIndex(index uint32) Register {
	return Register(index & 0x1F)
}

// Index returns the register's position in the register file (0-31).
// It panics for PC, which is not part of the register file.
func (r Register) Index() int {
	if r >= PC {
		panic(fmt.Sprintf("insts: register %d has no register file index", r))
	}
	return int(r)
}

// IsGeneral reports whether r is one of X0-X31.
func (r Register) IsGeneral() bool {
	return r < PC
}

// ABIName returns the calling-convention name, e.g. "a0" for X10.
func (r Register) ABIName() string {
	if r == PC {
		return "pc"
	}
	if r > PC {
		return fmt.Sprintf("reg(%d)", r)
	}
	return abiNames[r]
}

// String returns the architectural name, e.g. "x10".
func (r Register) String() string {
	if r == PC {
		return "pc"
	}
	if r > PC {
		return fmt.Sprintf("reg(%d)", r)
	}
	return fmt.Sprintf("x%d", uint8(r))
}
