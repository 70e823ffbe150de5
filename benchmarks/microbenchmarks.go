package benchmarks

import (
	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/insts"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each
// benchmark targets a specific core characteristic and exits through the
// exit syscall with a known status.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		matrixOperations(),
		loopSimulation(),
		arraySum(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick
// validation: a loop, matrix-style memory traffic and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		matrixOperations(),
		branchTaken(),
	}
}

// exitSyscall prepares a7 for the exit syscall.
func exitSyscall(regFile *emu.RegFile) {
	regFile.WriteReg(insts.A7, emu.SyscallExit)
}

// storeDoublewords writes consecutive 64-bit values starting at addr.
func storeDoublewords(memory *emu.Memory, addr uint64, values ...uint64) {
	for i, v := range values {
		if err := memory.Write64(addr+uint64(8*i), v); err != nil {
			panic(err)
		}
	}
}

// 1. Arithmetic Sequential - Tests ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	program := make([]insts.Instruction, 0, 21)
	for i := 0; i < 4; i++ {
		for _, rd := range []insts.Register{insts.A0, insts.A1, insts.A2, insts.A3, insts.A4} {
			program = append(program, insts.Addi{Rd: rd, Rs1: rd, Imm: 1})
		}
	}
	program = append(program, insts.Ecall{})

	return Benchmark{
		Name:         "arithmetic_sequential",
		Description:  "20 independent ADDI operations - measures ALU throughput",
		Setup:        func(regFile *emu.RegFile, memory *emu.Memory) { exitSyscall(regFile) },
		Program:      BuildProgram(program...),
		ExpectedExit: 4,
	}
}

// 2. Dependency Chain - Tests instruction latency with RAW hazards
func dependencyChain() Benchmark {
	return Benchmark{
		Name:         "dependency_chain",
		Description:  "20 dependent ADDIs (a0 = a0 + 1) - measures back-to-back latency",
		Setup:        func(regFile *emu.RegFile, memory *emu.Memory) { exitSyscall(regFile) },
		Program:      buildDependencyChain(20),
		ExpectedExit: 20,
	}
}

func buildDependencyChain(n int) []byte {
	program := make([]insts.Instruction, 0, n+1)
	for i := 0; i < n; i++ {
		program = append(program, insts.Addi{Rd: insts.A0, Rs1: insts.A0, Imm: 1})
	}
	program = append(program, insts.Ecall{})
	return BuildProgram(program...)
}

// 3. Memory Sequential - Tests cache/memory performance
func memorySequential() Benchmark {
	program := make([]insts.Instruction, 0, 21)
	for i := int32(0); i < 10; i++ {
		program = append(program,
			insts.Sd{Rs1: insts.T0, Rs2: insts.A0, Imm: 8 * i},
			insts.Ld{Rd: insts.A0, Rs1: insts.T0, Imm: 8 * i},
		)
	}
	program = append(program, insts.Ecall{})

	return Benchmark{
		Name:        "memory_sequential",
		Description: "10 store/load pairs to sequential addresses - measures memory latency",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			exitSyscall(regFile)
			regFile.WriteReg(insts.T0, DataBase)
			regFile.WriteReg(insts.A0, 42)
		},
		Program:      BuildProgram(program...),
		ExpectedExit: 42,
	}
}

// 4. Function Calls - Tests JAL/JALR overhead
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "5 function calls (JAL + JALR pairs) - measures call overhead",
		Setup:       func(regFile *emu.RegFile, memory *emu.Memory) { exitSyscall(regFile) },
		Program: BuildProgram(
			// main: call add_one 5 times
			insts.Jal{Rd: insts.RA, Imm: 24},
			insts.Jal{Rd: insts.RA, Imm: 20},
			insts.Jal{Rd: insts.RA, Imm: 16},
			insts.Jal{Rd: insts.RA, Imm: 12},
			insts.Jal{Rd: insts.RA, Imm: 8},
			insts.Ecall{},

			// add_one
			insts.Addi{Rd: insts.A0, Rs1: insts.A0, Imm: 1},
			insts.Jalr{Rd: insts.X0, Rs1: insts.RA, Imm: 0},
		),
		ExpectedExit: 5,
	}
}

// 5. Branch Taken - Tests unconditional jump overhead
func branchTaken() Benchmark {
	program := make([]insts.Instruction, 0, 16)
	for i := 0; i < 5; i++ {
		program = append(program,
			insts.Jal{Rd: insts.X0, Imm: 8},
			insts.Addi{Rd: insts.A1, Rs1: insts.A1, Imm: 99}, // skipped
			insts.Addi{Rd: insts.A0, Rs1: insts.A0, Imm: 1},
		)
	}
	program = append(program, insts.Ecall{})

	return Benchmark{
		Name:         "branch_taken",
		Description:  "5 forward jumps over a skipped instruction - measures jump overhead",
		Setup:        func(regFile *emu.RegFile, memory *emu.Memory) { exitSyscall(regFile) },
		Program:      BuildProgram(program...),
		ExpectedExit: 5,
	}
}

// 6. Mixed Operations - Combination of ALU, memory, and calls
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "Mix of ADD, SD/LD, and JAL - realistic workload characteristics",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			exitSyscall(regFile)
			regFile.WriteReg(insts.T0, DataBase)
		},
		Program: BuildProgram(
			// Iteration 1: compute, store, load, call
			insts.Addi{Rd: insts.T1, Rs1: insts.A0, Imm: 10},
			insts.Sd{Rs1: insts.T0, Rs2: insts.T1, Imm: 0},
			insts.Ld{Rd: insts.T2, Rs1: insts.T0, Imm: 0},
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T2},
			insts.Jal{Rd: insts.RA, Imm: 44},

			// Iteration 2
			insts.Addi{Rd: insts.T1, Rs1: insts.A0, Imm: 10},
			insts.Sd{Rs1: insts.T0, Rs2: insts.T1, Imm: 8},
			insts.Ld{Rd: insts.T2, Rs1: insts.T0, Imm: 8},
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T2},
			insts.Jal{Rd: insts.RA, Imm: 24},

			// Iteration 3
			insts.Addi{Rd: insts.T1, Rs1: insts.A0, Imm: 10},
			insts.Sd{Rs1: insts.T0, Rs2: insts.T1, Imm: 16},
			insts.Ld{Rd: insts.T2, Rs1: insts.T0, Imm: 16},
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T2},

			insts.Ecall{},

			// add_five
			insts.Addi{Rd: insts.A0, Rs1: insts.A0, Imm: 5},
			insts.Jalr{Rd: insts.X0, Rs1: insts.RA, Imm: 0},
		),
		// iter1: a0=0 -> 10, call -> 15
		// iter2: a0=15 -> 40, call -> 45
		// iter3: a0=45 -> 100
		ExpectedExit: 100,
	}
}

// 7. Matrix Operations - Load/compute/store over small arrays
func matrixOperations() Benchmark {
	const (
		arrayA = DataBase
		arrayB = DataBase + 0x100
		arrayC = DataBase + 0x200
	)

	return Benchmark{
		Name:        "matrix_operations",
		Description: "Matrix-style load/compute/store pattern - tests memory access",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			exitSyscall(regFile)
			regFile.WriteReg(insts.T0, arrayA)
			regFile.WriteReg(insts.T1, arrayB)
			regFile.WriteReg(insts.T2, arrayC)
			storeDoublewords(memory, arrayA, 10, 20, 30, 40)
			storeDoublewords(memory, arrayB, 1, 2, 3, 4)
		},
		// C[i] = A[i] + B[i] = [11, 22, 33, 44]; exit with the sum, 110
		Program: BuildProgram(
			insts.Ld{Rd: insts.S2, Rs1: insts.T0, Imm: 0},
			insts.Ld{Rd: insts.S3, Rs1: insts.T0, Imm: 8},
			insts.Ld{Rd: insts.S4, Rs1: insts.T0, Imm: 16},
			insts.Ld{Rd: insts.S5, Rs1: insts.T0, Imm: 24},

			insts.Ld{Rd: insts.S6, Rs1: insts.T1, Imm: 0},
			insts.Ld{Rd: insts.S7, Rs1: insts.T1, Imm: 8},
			insts.Ld{Rd: insts.S8, Rs1: insts.T1, Imm: 16},
			insts.Ld{Rd: insts.S9, Rs1: insts.T1, Imm: 24},

			insts.Add{Rd: insts.T3, Rs1: insts.S2, Rs2: insts.S6},
			insts.Add{Rd: insts.T4, Rs1: insts.S3, Rs2: insts.S7},
			insts.Add{Rd: insts.T5, Rs1: insts.S4, Rs2: insts.S8},
			insts.Add{Rd: insts.T6, Rs1: insts.S5, Rs2: insts.S9},

			insts.Sd{Rs1: insts.T2, Rs2: insts.T3, Imm: 0},
			insts.Sd{Rs1: insts.T2, Rs2: insts.T4, Imm: 8},
			insts.Sd{Rs1: insts.T2, Rs2: insts.T5, Imm: 16},
			insts.Sd{Rs1: insts.T2, Rs2: insts.T6, Imm: 24},

			insts.Add{Rd: insts.A0, Rs1: insts.T3, Rs2: insts.T4},
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T5},
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T6},

			insts.Ecall{},
		),
		ExpectedExit: 110,
	}
}

// 8. Loop Simulation - for i := 0; i < 10; i++ { sum += i }
func loopSimulation() Benchmark {
	return Benchmark{
		Name:        "loop_simulation",
		Description: "10-iteration counted loop - tests loop branch prediction",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			exitSyscall(regFile)
			regFile.WriteReg(insts.T1, 10)
		},
		Program: BuildProgram(
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T0},
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: 1},
			insts.Bne{Rs1: insts.T0, Rs2: insts.T1, Imm: -8},
			insts.Ecall{},
		),
		ExpectedExit: 45,
	}
}

// 9. Array Sum - Sequential loads in a loop
func arraySum() Benchmark {
	values := make([]uint64, 32)
	for i := range values {
		values[i] = uint64(i + 1)
	}

	return Benchmark{
		Name:        "array_sum",
		Description: "Sum of 32 doublewords in a loop - measures D-cache line reuse",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			exitSyscall(regFile)
			regFile.WriteReg(insts.T0, DataBase)
			regFile.WriteReg(insts.T1, DataBase+8*uint64(len(values)))
			storeDoublewords(memory, DataBase, values...)
		},
		Program: BuildProgram(
			insts.Ld{Rd: insts.T2, Rs1: insts.T0, Imm: 0},
			insts.Add{Rd: insts.A0, Rs1: insts.A0, Rs2: insts.T2},
			insts.Addi{Rd: insts.T0, Rs1: insts.T0, Imm: 8},
			insts.Bltu{Rs1: insts.T0, Rs2: insts.T1, Imm: -12},
			insts.Ecall{},
		),
		ExpectedExit: 528,
	}
}
