// Command pipesim decodes LEGv8 assembly and reports how the program flows
// through a 5-stage pipeline with load-use stalls.
//
// Usage:
//
//	pipesim [flags] [file ...]
//
// With no file arguments the program is read from standard input, one
// instruction per line. Each file is simulated on its own.
//
// Flags:
//
//	-v          Log every decoded instruction and hazard to stderr
//	-config     Path to a JSON or YAML configuration file
//	-color      Colored output: auto, always or never
//	-chart      Print the stage chart (default true)
//	-cycles     Print the total cycle count (default true)
//	-annotate   Print each instruction next to its chart row
//	-json       Print a JSON report instead of text
//
// The exit status is 1 when a file or the configuration cannot be read and
// 2 when any line failed to decode.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"golang.org/x/term"

	"github.com/sarchlab/pipesim/config"
	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/loader"
	"github.com/sarchlab/pipesim/timing/core"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitDecodeError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	cfg      *config.Config
	jsonOut  bool
	files    []string
	colorize bool
}

func parseFlags(args []string, stdout, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pipesim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	verbose := fs.Bool("v", false, "Log every decoded instruction and hazard")
	configPath := fs.String("config", "", "Path to JSON or YAML configuration file")
	color := fs.String("color", config.ColorAuto, "Colored output: auto, always or never")
	chart := fs.Bool("chart", true, "Print the stage chart")
	cycles := fs.Bool("cycles", true, "Print the total cycle count")
	annotate := fs.Bool("annotate", false, "Print each instruction next to its chart row")
	jsonOut := fs.Bool("json", false, "Print a JSON report instead of text")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: pipesim [options] [file ...]\n")
		_, _ = fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	// Flags given explicitly override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			if *verbose && cfg.Verbosity < 1 {
				cfg.Verbosity = 1
			}
		case "color":
			cfg.Color = *color
		case "chart":
			cfg.ShowChart = *chart
		case "cycles":
			cfg.ShowCycles = *cycles
		case "annotate":
			cfg.Annotate = *annotate
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &options{
		cfg:      cfg,
		jsonOut:  *jsonOut,
		files:    fs.Args(),
		colorize: useColor(cfg.Color, stdout),
	}, nil
}

// useColor resolves a color mode against the output stream.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newLogger returns a logger that writes structured diagnostics to w.
func newLogger(w io.Writer, verbosity int) logr.Logger {
	if verbosity < 1 {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	p := pens{}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s %s\n", p.errorTag(), err)
		return exitFailure
	}
	p.enabled = opts.colorize

	r := &reporter{
		cfg:    opts.cfg,
		pens:   p,
		out:    stdout,
		errOut: stderr,
		log:    newLogger(stderr, opts.cfg.Verbosity).WithName("pipesim"),
	}

	var sources []*loader.Source
	if len(opts.files) == 0 {
		src, err := loader.Read("<stdin>", stdin)
		if err != nil {
			r.fail(err)
			return exitFailure
		}
		sources = append(sources, src)
	}
	for _, path := range opts.files {
		src, err := loader.Load(path)
		if err != nil {
			r.fail(err)
			return exitFailure
		}
		sources = append(sources, src)
	}

	status := exitOK
	var reports []report
	for _, src := range sources {
		rep := r.simulate(src)
		if len(rep.DecodeErrors) > 0 {
			status = exitDecodeError
		}

		if opts.jsonOut {
			reports = append(reports, rep)
			continue
		}
		if err := r.printText(src, rep, len(sources) > 1); err != nil {
			r.fail(err)
			return exitFailure
		}
	}

	if opts.jsonOut {
		if err := r.printJSON(reports); err != nil {
			r.fail(err)
			return exitFailure
		}
	}

	return status
}

// reporter simulates sources and writes their reports.
type reporter struct {
	cfg    *config.Config
	pens   pens
	out    io.Writer
	errOut io.Writer
	log    logr.Logger
}

// hazardReport is the JSON form of a pipeline.Hazard.
type hazardReport struct {
	Producer int    `json:"producer"`
	Consumer int    `json:"consumer"`
	Register string `json:"register"`
}

// decodeErrorReport is the JSON form of an insts.DecodeError.
type decodeErrorReport struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"error"`
}

// report is the outcome of simulating one source.
type report struct {
	Source        string              `json:"source"`
	Instructions  int                 `json:"instructions"`
	Stalls        int                 `json:"stalls"`
	Cycles        int                 `json:"cycles"`
	CPI           float64             `json:"cpi"`
	SimulatedTime time.Duration       `json:"simulated_time_ns"`
	Hazards       []hazardReport      `json:"hazards"`
	DecodeErrors  []decodeErrorReport `json:"decode_errors"`
	Chart         []string            `json:"chart"`

	result  pipeline.Result
	program insts.Program
}

func (r *reporter) simulate(src *loader.Source) report {
	c := core.NewCore(core.WithLogger(r.log.WithValues("source", src.Name)))
	errs := c.Load(src.Texts())
	result := c.Run()
	stats := c.Stats()

	rep := report{
		Source:        src.Name,
		Instructions:  len(result.Rows),
		Stalls:        result.Stalls,
		Cycles:        result.Cycles,
		CPI:           stats.CPI(),
		SimulatedTime: time.Duration(math.Round(stats.SimulatedSeconds(r.cfg.ClockFrequency) * float64(time.Second))),
		Hazards:       []hazardReport{},
		DecodeErrors:  []decodeErrorReport{},
		Chart:         make([]string, 0, len(result.Rows)),
		result:        result,
		program:       c.Program(),
	}

	for _, h := range result.Hazards {
		rep.Hazards = append(rep.Hazards, hazardReport{
			Producer: src.FileLine(h.Producer + 1),
			Consumer: src.FileLine(h.Consumer + 1),
			Register: h.Register,
		})
	}
	for _, e := range errs {
		rep.DecodeErrors = append(rep.DecodeErrors, decodeErrorReport{
			Line:    src.FileLine(e.Line),
			Text:    e.Text,
			Message: e.Err.Error(),
		})
	}
	for _, row := range result.Rows {
		rep.Chart = append(rep.Chart, pipeline.FormatRow(row, r.cfg.CellWidth))
	}

	return rep
}

func (r *reporter) printText(src *loader.Source, rep report, header bool) error {
	for _, e := range rep.DecodeErrors {
		_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.pens.errorTag(),
			r.pens.errorText(fmt.Sprintf("%s:%d: %s (%q)", src.Name, e.Line, e.Message, e.Text)))
	}

	if header {
		if _, err := fmt.Fprintf(r.out, "== %s ==\n", src.Name); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if r.cfg.Verbosity > 0 {
		_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.pens.infoTag(), r.pens.message(fmt.Sprintf(
			"%d instructions, %d stalls, CPI %.2f, %v at %.2f GHz",
			rep.Instructions, rep.Stalls, rep.CPI, rep.SimulatedTime,
			float64(r.cfg.ClockFrequency)/1e9)))
	}

	if r.cfg.ShowChart {
		chartOpts := pipeline.ChartOptions{CellWidth: r.cfg.CellWidth}
		if r.cfg.Annotate {
			chartOpts.Program = rep.program
		}

		if _, err := fmt.Fprintf(r.out, "%s\n\n", r.pens.heading("Chart of pipelined stages:")); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		_, _ = fmt.Fprint(r.out, r.pens.open(csiGreen, csiBold))
		if err := pipeline.RenderChart(r.out, rep.result, chartOpts); err != nil {
			return err
		}
		_, _ = fmt.Fprint(r.out, r.pens.close())
		_, _ = fmt.Fprintln(r.out)
	}

	if r.cfg.ShowCycles {
		line := fmt.Sprintf("Total Cycle Count: %d", rep.Cycles)
		if _, err := fmt.Fprintln(r.out, r.pens.heading(line)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

func (r *reporter) printJSON(reports []report) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")

	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (r *reporter) fail(err error) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.pens.errorTag(), r.pens.errorText(err.Error()))
}
