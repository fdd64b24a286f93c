// Package core provides the decode-and-simulate model of one program.
// It wraps the decoder and the pipeline to provide a high-level interface.
package core

import (
	"github.com/go-logr/logr"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions in the program.
	Instructions uint64
	// Stalls is the number of stall cycles.
	Stalls uint64
	// DataHazards is the number of load-use hazards detected.
	DataHazards uint64
	// DecodeErrors is the number of lines that failed to decode cleanly.
	DecodeErrors uint64
}

// CPI returns the cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// SimulatedSeconds returns how long the cycles take at the given clock.
func (s Stats) SimulatedSeconds(freq sim.Freq) float64 {
	if freq <= 0 {
		return 0
	}
	return float64(s.Cycles) / float64(freq)
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLogger sets the logger. Decode errors are logged as errors; decoded
// instructions and hazards are logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(c *Core) {
		c.log = log
	}
}

// Core decodes a batch of instruction lines and runs them through the
// pipeline model.
type Core struct {
	// Pipeline is the underlying 5-stage pipeline.
	Pipeline *pipeline.Pipeline

	log logr.Logger

	program    insts.Program
	decodeErrs []*insts.DecodeError
	result     pipeline.Result
	ran        bool
}

// NewCore creates a new Core.
func NewCore(opts ...Option) *Core {
	c := &Core{log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}

	c.Pipeline = pipeline.NewPipeline(pipeline.WithLogger(c.log))

	return c
}

// Load decodes lines into the program, replacing any earlier program. It
// returns the per-line decode errors; decoding never stops early.
func (c *Core) Load(lines []string) []*insts.DecodeError {
	c.Reset()
	c.program, c.decodeErrs = insts.DecodeProgram(lines)

	for _, err := range c.decodeErrs {
		c.log.Error(err.Err, "decode failed", "line", err.Line, "text", err.Text)
	}

	if v := c.log.V(1); v.Enabled() {
		for i := range c.program {
			logInstruction(v, i+1, &c.program[i])
		}
	}

	return c.decodeErrs
}

// logInstruction dumps every field of a decoded instruction.
func logInstruction(log logr.Logger, line int, inst *insts.Instruction) {
	kv := []any{"line", line, "op", inst.Op.String(), "format", inst.Format.String()}
	for _, f := range inst.Operands.Fields() {
		kv = append(kv, f.Name, f.Operand.String())
	}
	log.Info("decoded", kv...)
}

// Program returns the loaded program.
func (c *Core) Program() insts.Program {
	return c.program
}

// DecodeErrors returns the errors reported by the last Load.
func (c *Core) DecodeErrors() []*insts.DecodeError {
	return c.decodeErrs
}

// Run simulates the loaded program and returns the result.
func (c *Core) Run() pipeline.Result {
	c.result = c.Pipeline.Simulate(c.program)
	c.ran = true
	return c.result
}

// Result returns the result of the last Run.
func (c *Core) Result() pipeline.Result {
	return c.result
}

// Halted returns true once the loaded program has been simulated.
func (c *Core) Halted() bool {
	return c.ran
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.result.Stats()
	return Stats{
		Cycles:       pipeStats.Cycles,
		Instructions: pipeStats.Instructions,
		Stalls:       pipeStats.Stalls,
		DataHazards:  pipeStats.DataHazards,
		DecodeErrors: uint64(len(c.decodeErrs)),
	}
}

// Reset clears the program and results.
func (c *Core) Reset() {
	c.program = nil
	c.decodeErrs = nil
	c.result = pipeline.Result{}
	c.ran = false
}
