// Package pipeline provides a 5-stage pipeline model for load-use stall
// simulation.
package pipeline

import "fmt"

// Stage identifies one of the five pipeline stages.
type Stage uint8

// Pipeline stages, in the order every instruction passes through them.
const (
	StageIF Stage = iota // Instruction fetch
	StageID              // Instruction decode and register read
	StageEX              // Execute
	StageME              // Memory access
	StageWB              // Register write back
)

// NumStages is the pipeline depth.
const NumStages = 5

const (
	// FillDrainCycles is the extra cycles needed to fill and drain the
	// pipeline around a stall-free instruction stream.
	FillDrainCycles = NumStages - 1

	// LoadUseBubble is the number of bubbles inserted per load-use hazard.
	LoadUseBubble = 1
)

var stageNames = [NumStages]string{"IF", "ID", "EX", "ME", "WB"}

// String returns the two letter stage label.
func (s Stage) String() string {
	if int(s) < NumStages {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// StageLabels returns the labels of all stages in pipeline order.
func StageLabels() [NumStages]string {
	return stageNames
}
