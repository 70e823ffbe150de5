// Command benchmark runs the RV64I timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results as a JSON report
//	-core       Run only the three core benchmarks
//	-config     Path to timing configuration JSON file
//	-no-icache  Disable instruction cache simulation
//	-no-dcache  Disable data cache simulation
//	-plot       Write a CPI bar chart to the given file (png, svg or pdf)
//	-v          Log each benchmark as it completes
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// The process exits with status 1 if any benchmark does not exit with its
// expected status.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rv64sim/benchmarks"
	"github.com/sarchlab/rv64sim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	noICache := flag.Bool("no-icache", false, "Disable instruction cache simulation")
	noDCache := flag.Bool("no-dcache", false, "Disable data cache simulation")
	plotPath := flag.String("plot", "", "Write a CPI bar chart to this file")
	verbose := flag.Bool("v", false, "Log each benchmark as it completes")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.EnableICache = !*noICache
	config.EnableDCache = !*noDCache
	config.Verbose = *verbose
	config.Output = os.Stdout

	if *configPath != "" {
		timing, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timing
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	human := !*csvOutput && !*jsonOutput
	if human {
		fmt.Println("RV64I Timing Benchmark Harness")
		fmt.Println("==============================")
		fmt.Printf("I-Cache: %v\n", config.EnableICache)
		fmt.Printf("D-Cache: %v\n", config.EnableDCache)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	if *plotPath != "" {
		if err := benchmarks.PlotCPI(results, *plotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CPI chart: %v\n", err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d benchmarks failed validation\n", failed, len(results))
		os.Exit(1)
	}
}
