// Package main provides the rv64sim command, which runs an RV64I program in
// the functional emulator, optionally under the timing model.
//
// Usage:
//
//	rv64sim [options] <program>
//
// The program is an RV64 ELF executable or a raw image loaded at address 0.
// The process exits with the guest's exit status, or 1 if the guest stops on
// a fatal trap.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/loader"
	"github.com/sarchlab/rv64sim/timing/core"
	"github.com/sarchlab/rv64sim/timing/latency"
	"github.com/sarchlab/rv64sim/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	timing     bool
	configPath string
	trace      bool
	max        uint64
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	opts := &options{}

	fs := flag.NewFlagSet("rv64sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.timing, "timing", false, "Enable timing simulation mode")
	fs.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file")
	fs.BoolVar(&opts.trace, "trace", false, "Log every executed instruction to stderr")
	fs.Uint64Var(&opts.max, "max", 0, "Stop after this many instructions (0 means no limit)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: rv64sim [options] <program>\n")
		_, _ = fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if len(rest) != 1 {
		_, _ = fmt.Fprintf(stderr, "Usage: rv64sim [options] <program>\n")
		return 2
	}
	programPath := rest[0]

	log := logrus.New()
	log.SetOutput(stderr)
	switch {
	case opts.trace:
		log.SetLevel(logrus.DebugLevel)
	case opts.verbose:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	prog, err := loader.Load(programPath)
	if err != nil {
		log.WithError(err).Error("failed to load program")
		return 1
	}

	memory, err := prog.NewMemory()
	if err != nil {
		log.WithError(err).Error("failed to build memory image")
		return 1
	}

	log.WithFields(logrus.Fields{
		"program":  programPath,
		"entry":    fmt.Sprintf("0x%X", prog.EntryPoint),
		"segments": len(prog.Segments),
		"memory":   memory.Size(),
	}).Info("program loaded")

	syscalls := emu.NewDefaultSyscallHandler(stdout, stderr)
	syscalls.SetStdin(stdin)
	defer func() {
		if err := syscalls.FDTable().CloseAll(); err != nil {
			log.WithError(err).Warn("failed to close guest files")
		}
	}()

	emuOpts := []emu.EmulatorOption{
		emu.WithEntryPoint(prog.EntryPoint),
		emu.WithTrapHandler(emu.NewSyscallTrapHandler(syscalls)),
		emu.WithMaxInstructions(opts.max),
	}
	if prog.InitialSP != 0 {
		emuOpts = append(emuOpts, emu.WithStackPointer(prog.InitialSP))
	}
	if opts.trace {
		emuOpts = append(emuOpts, emu.WithInstrumentation(trace.NewLogger(log)))
	}

	var timingCore *core.Core
	if opts.timing {
		timingConfig := latency.DefaultTimingConfig()
		if opts.configPath != "" {
			timingConfig, err = latency.LoadConfig(opts.configPath)
			if err != nil {
				log.WithError(err).Error("failed to load timing config")
				return 1
			}
		}
		timingCore = core.NewCore(memory, core.WithTimingConfig(timingConfig))
		emuOpts = append(emuOpts, emu.WithInstrumentation(timingCore))
	}

	emulator := emu.NewEmulator(memory, emuOpts...)
	result := emulator.Run()

	log.WithFields(logrus.Fields{
		"exit":         result.ExitCode,
		"instructions": emulator.InstructionCount(),
	}).Info("program finished")

	if timingCore != nil {
		printTimingReport(stdout, programPath, timingCore)
	}

	if result.Err != nil {
		var trapErr *emu.TrapError
		if errors.As(result.Err, &trapErr) {
			_, _ = fmt.Fprintf(stderr, "rv64sim: fatal trap: %v\n", trapErr)
		} else {
			_, _ = fmt.Fprintf(stderr, "rv64sim: %v\n", result.Err)
		}
		return 1
	}

	return int(result.ExitCode)
}

func printTimingReport(w io.Writer, programPath string, c *core.Core) {
	stats := c.Stats()
	icache := c.ICacheStats()
	dcache := c.DCacheStats()
	bp := c.PredictorStats()

	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Program: %s\n", programPath)
	_, _ = fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	_, _ = fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Stalls: %d cycles\n", stats.Stalls)
	_, _ = fmt.Fprintf(w, "  I-Cache: %d hits, %d misses (%.1f%% hit rate)\n",
		icache.Hits, icache.Misses, 100*icache.HitRate())
	_, _ = fmt.Fprintf(w, "  D-Cache: %d hits, %d misses (%.1f%% hit rate)\n",
		dcache.Hits, dcache.Misses, 100*dcache.HitRate())
	_, _ = fmt.Fprintf(w, "  Branches: %d predicted, %d mispredicted\n",
		bp.Predictions, stats.Mispredictions)
}
