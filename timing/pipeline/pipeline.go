package pipeline

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/pipesim/insts"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions completed.
	Instructions uint64
	// Stalls is the number of bubble cycles inserted for load-use hazards.
	Stalls uint64
	// DataHazards is the number of load-use hazards detected.
	DataHazards uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Row is one line of the stage chart.
type Row struct {
	// Index is the position of the instruction in the program.
	Index int
	// Offset is the first cycle slot occupied by the instruction. It equals
	// Index plus the stalls inserted before the instruction.
	Offset int
	// Labels holds the stage labels in pipeline order.
	Labels [NumStages]string
}

// Result is the outcome of simulating one program.
type Result struct {
	// Rows holds one chart row per instruction, in program order.
	Rows []Row
	// Hazards lists every detected load-use hazard.
	Hazards []Hazard
	// Stalls is the total number of inserted bubbles.
	Stalls int
	// Cycles is the total cycle count: FillDrainCycles + N + Stalls.
	Cycles int
}

// Stats summarizes the result.
func (r Result) Stats() Statistics {
	return Statistics{
		Cycles:       uint64(r.Cycles),
		Instructions: uint64(len(r.Rows)),
		Stalls:       uint64(r.Stalls),
		DataHazards:  uint64(len(r.Hazards)),
	}
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithHazardUnit sets a custom hazard unit.
func WithHazardUnit(unit *HazardUnit) PipelineOption {
	return func(p *Pipeline) {
		p.hazardUnit = unit
	}
}

// WithLogger sets the logger used to report detected hazards at V(1).
func WithLogger(log logr.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = log
	}
}

// Pipeline is an in-order 5-stage pipeline that stalls one cycle for each
// load immediately followed by a reader of the loaded register.
//
// Only adjacent pairs are compared. A load two instructions ahead of its
// reader never stalls, even when an earlier bubble shifts their timing. This
// is a modeling simplification and not full forwarding analysis.
type Pipeline struct {
	hazardUnit *HazardUnit
	log        logr.Logger
}

// NewPipeline creates a new pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		hazardUnit: NewHazardUnit(),
		log:        logr.Discard(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Simulate walks the program once and computes the stage chart, stall count
// and total cycle count. The program is not modified.
func (p *Pipeline) Simulate(prog insts.Program) Result {
	n := prog.Len()
	result := Result{
		Rows: make([]Row, 0, n),
	}

	stalls := 0
	for i := 0; i < n; i++ {
		result.Rows = append(result.Rows, Row{
			Index:  i,
			Offset: i + stalls,
			Labels: StageLabels(),
		})

		producer := prog.At(i)
		consumer := prog.At(i + 1)
		if !p.hazardUnit.DetectLoadUseHazard(producer, consumer) {
			continue
		}

		reg, _ := p.hazardUnit.LoadedRegister(producer)
		result.Hazards = append(result.Hazards, Hazard{
			Producer: i,
			Consumer: i + 1,
			Register: reg,
		})
		stalls += LoadUseBubble

		p.log.V(1).Info("load-use hazard",
			"producer", i, "consumer", i+1, "register", reg)
	}

	result.Stalls = stalls
	result.Cycles = TotalCycles(n, stalls)

	return result
}

// TotalCycles returns the cycle count of n instructions with the given
// number of stall cycles.
func TotalCycles(n, stalls int) int {
	return FillDrainCycles + n + stalls
}
