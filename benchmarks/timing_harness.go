// Package benchmarks provides the harness that runs batches of programs
// through the pipeline model and reports their timing.
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/sarchlab/akita/v4/sim"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/pipesim/loader"
	"github.com/sarchlab/pipesim/timing/core"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the pipeline model
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// Instructions is the number of instructions in the program
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// StallCycles is the number of load-use bubbles
	StallCycles uint64 `json:"stall_cycles"`

	// DataHazards is the number of load-use hazards detected
	DataHazards uint64 `json:"data_hazards"`

	// DecodeErrors is the number of lines that failed to decode cleanly
	DecodeErrors uint64 `json:"decode_errors"`

	// SimulatedTime is the cycle count converted at the configured clock
	SimulatedTime time.Duration `json:"simulated_time_ns"`

	// ExpectedStalls is the stall count the benchmark declares, or -1
	ExpectedStalls int `json:"expected_stalls"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Matches reports whether the stall count equals the expected one. A
// benchmark without an expectation always matches.
func (r BenchmarkResult) Matches() bool {
	return r.ExpectedStalls < 0 || uint64(r.ExpectedStalls) == r.StallCycles
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program is the assembly text, one instruction per line
	Program []string

	// ExpectedStalls is the stall count the pipeline must report. Use -1
	// when unknown.
	ExpectedStalls int
}

// FromSource builds a benchmark from a loaded source file. It has no
// expected stall count.
func FromSource(src *loader.Source) Benchmark {
	return Benchmark{
		Name:           strings.TrimSuffix(filepath.Base(src.Name), filepath.Ext(src.Name)),
		Description:    src.Name,
		Program:        src.Texts(),
		ExpectedStalls: -1,
	}
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// ClockFrequency converts cycles into simulated time
	ClockFrequency sim.Freq

	// Parallel is the maximum number of benchmarks simulated at once
	Parallel int

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives decode diagnostics
	Logger logr.Logger

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		ClockFrequency: 1 * sim.GHz,
		Parallel:       runtime.GOMAXPROCS(0),
		Output:         os.Stdout,
		Logger:         logr.Discard(),
		Verbose:        false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Parallel < 1 {
		config.Parallel = 1
	}
	if config.ClockFrequency <= 0 {
		config.ClockFrequency = 1 * sim.GHz
	}
	if config.Logger.GetSink() == nil {
		config.Logger = logr.Discard()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results in the order the
// benchmarks were added. Independent benchmarks run concurrently, up to
// HarnessConfig.Parallel at a time.
func (h *Harness) RunAll(ctx context.Context) ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, len(h.benchmarks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.Parallel)

	for i, bench := range h.benchmarks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("benchmark %s not run: %w", bench.Name, err)
			}
			results[i] = h.runBenchmark(bench)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	c := core.NewCore(core.WithLogger(h.config.Logger.WithValues("benchmark", bench.Name)))

	start := time.Now()
	c.Load(bench.Program)
	c.Run()
	wallTime := time.Since(start)

	stats := c.Stats()
	seconds := stats.SimulatedSeconds(h.config.ClockFrequency)

	return BenchmarkResult{
		Name:            bench.Name,
		Description:     bench.Description,
		SimulatedCycles: stats.Cycles,
		Instructions:    stats.Instructions,
		CPI:             stats.CPI(),
		StallCycles:     stats.Stalls,
		DataHazards:     stats.DataHazards,
		DecodeErrors:    stats.DecodeErrors,
		SimulatedTime:   time.Duration(math.Round(seconds * float64(time.Second))),
		ExpectedStalls:  bench.ExpectedStalls,
		WallTime:        wallTime,
	}
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Pipeline Timing Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles: %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions:     %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:              %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Stall Cycles:     %d\n", r.StallCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Data Hazards:     %d\n", r.DataHazards)
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Time:   %v\n", r.SimulatedTime)
		if r.DecodeErrors > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Decode Errors:    %d\n", r.DecodeErrors)
		}
		if r.ExpectedStalls >= 0 {
			status := "ok"
			if !r.Matches() {
				status = "MISMATCH"
			}
			_, _ = fmt.Fprintf(h.config.Output, "  Expected Stalls:  %d (%s)\n", r.ExpectedStalls, status)
		}

		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		}
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,stalls,data_hazards,decode_errors,expected_stalls,simulated_time_ns")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d\n",
			r.Name,
			r.SimulatedCycles,
			r.Instructions,
			r.CPI,
			r.StallCycles,
			r.DataHazards,
			r.DecodeErrors,
			r.ExpectedStalls,
			r.SimulatedTime.Nanoseconds(),
		)
	}
}

// PrintJSON outputs benchmark results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
