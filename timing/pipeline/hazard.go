package pipeline

import "github.com/sarchlab/pipesim/insts"

// Hazard records one detected load-use dependency between adjacent
// instructions.
type Hazard struct {
	// Producer is the index of the load.
	Producer int
	// Consumer is the index of the instruction reading the loaded register.
	Consumer int
	// Register is the loaded register name.
	Register string
}

// HazardUnit detects load-use data hazards.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// IsLoad returns true if the instruction reads memory into a register.
func (h *HazardUnit) IsLoad(inst *insts.Instruction) bool {
	return inst != nil && inst.Op.IsLoad()
}

// LoadedRegister returns the destination register of a load. It returns
// false for non-loads and for loads whose target was not decoded.
func (h *HazardUnit) LoadedRegister(inst *insts.Instruction) (string, bool) {
	if !h.IsLoad(inst) {
		return "", false
	}

	d, ok := inst.Operands.(insts.DOperands)
	if !ok {
		return "", false
	}
	return d.Rt.Value()
}

// ReadsRegister returns true if the instruction uses reg as a source
// register. Register names are compared exactly.
//
// R format reads Rn and Rm, I format reads Rn and CB format reads Rt. A D
// format instruction only reads registers when it is a store, in which case
// both the base Rn and the stored value Rt count. Branches read nothing.
func (h *HazardUnit) ReadsRegister(inst *insts.Instruction, reg string) bool {
	if inst == nil {
		return false
	}

	switch ops := inst.Operands.(type) {
	case insts.ROperands:
		return ops.Rn.Matches(reg) || ops.Rm.Matches(reg)
	case insts.IOperands:
		return ops.Rn.Matches(reg)
	case insts.DOperands:
		if inst.Op.IsStore() {
			return ops.Rn.Matches(reg) || ops.Rt.Matches(reg)
		}
		return false
	case insts.CBOperands:
		return ops.Rt.Matches(reg)
	default:
		return false
	}
}

// DetectLoadUseHazard returns true if producer is a load and consumer reads
// the loaded register. A nil consumer (no successor) is never a hazard.
func (h *HazardUnit) DetectLoadUseHazard(producer, consumer *insts.Instruction) bool {
	if consumer == nil {
		return false
	}

	loaded, ok := h.LoadedRegister(producer)
	if !ok {
		return false
	}

	return h.ReadsRegister(consumer, loaded)
}
