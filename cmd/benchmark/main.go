// Command benchmark runs the pipesim timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags] [file ...]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results as JSON
//	-parallel   Maximum number of benchmarks simulated at once
//	-core       Run only the core acceptance programs
//	-v          Verbose output
//
// Assembly files given as arguments are run after the built-in programs.
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sarchlab/pipesim/benchmarks"
	"github.com/sarchlab/pipesim/loader"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	parallel := flag.Int("parallel", 0, "Maximum concurrent benchmarks (default: GOMAXPROCS)")
	coreOnly := flag.Bool("core", false, "Run only the core acceptance programs")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	config.Verbose = *verbose
	if *parallel > 0 {
		config.Parallel = *parallel
	}

	// Create harness and add benchmarks
	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	for _, path := range flag.Args() {
		src, err := loader.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
			os.Exit(1)
		}
		harness.AddBenchmark(benchmarks.FromSource(src))
	}

	human := !*csvOutput && !*jsonOutput

	// Print configuration
	if human {
		fmt.Println("pipesim Timing Benchmark Harness")
		fmt.Println("================================")
		fmt.Printf("Clock: %.2f GHz\n", float64(config.ClockFrequency)/1e9)
		fmt.Printf("Parallel: %d\n", config.Parallel)
		fmt.Println("")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Run benchmarks
	results, err := harness.RunAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running benchmarks: %v\n", err)
		os.Exit(1)
	}

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	mismatches := 0
	for _, r := range results {
		if !r.Matches() {
			mismatches++
		}
	}

	if human {
		fmt.Println("=== Summary ===")
		fmt.Printf("Benchmarks: %d\n", len(results))
		fmt.Printf("Stall mismatches: %d\n", mismatches)
	}

	if mismatches > 0 {
		os.Exit(2)
	}
}
