package insts

import "strings"

// Operand is a single operand token such as "X1", "8" or "loop". The zero
// value is an absent operand.
type Operand struct {
	text    string
	present bool
}

// NewOperand returns a present operand holding text.
func NewOperand(text string) Operand {
	return Operand{text: text, present: true}
}

// Value returns the token text and whether the operand is present.
func (o Operand) Value() (string, bool) {
	return o.text, o.present
}

// IsPresent returns true if the operand was found in the source text.
func (o Operand) IsPresent() bool {
	return o.present
}

// Matches returns true if the operand is present and equals reg exactly.
// An absent operand never matches.
func (o Operand) Matches(reg string) bool {
	return o.present && o.text == reg
}

// Equal reports whether two operands have the same presence and text.
func (o Operand) Equal(other Operand) bool {
	return o.present == other.present && o.text == other.text
}

// String returns the token text, or "<nil>" for an absent operand.
func (o Operand) String() string {
	if !o.present {
		return "<nil>"
	}
	return o.text
}

// Field names one operand slot of a format, in source order.
type Field struct {
	Name    string
	Operand Operand
}

// Operands is the format specific operand record of an instruction. The
// concrete type is one of ROperands, IOperands, DOperands, BOperands,
// CBOperands, IMOperands or NoOperands.
type Operands interface {
	// Format returns the format this record belongs to.
	Format() Format

	// Fields returns the operand slots in source order.
	Fields() []Field

	isOperands()
}

// ROperands holds the fields of an R-format instruction.
type ROperands struct {
	Rd, Rn, Rm Operand

	// Shamt is never parsed from source text and is always absent.
	Shamt Operand
}

// IOperands holds the fields of an I-format instruction.
type IOperands struct {
	Rd, Rn Operand
	Imm12  Operand
}

// DOperands holds the fields of a D-format load or store.
type DOperands struct {
	Rt    Operand // Loaded or stored register
	Rn    Operand // Base address register
	Addr9 Operand // Byte offset
}

// BOperands holds the target of a branch.
type BOperands struct {
	Imm26 Operand
}

// CBOperands holds the fields of a compare-and-branch instruction.
type CBOperands struct {
	Rt    Operand
	Imm19 Operand
}

// IMOperands holds the fields of a move wide immediate instruction.
type IMOperands struct {
	Rd    Operand
	Imm16 Operand
	Sh    Operand // Shift amount of a trailing LSL clause
}

// NoOperands is the operand record of an instruction with unknown format.
type NoOperands struct{}

func (ROperands) Format() Format  { return FormatR }
func (IOperands) Format() Format  { return FormatI }
func (DOperands) Format() Format  { return FormatD }
func (BOperands) Format() Format  { return FormatB }
func (CBOperands) Format() Format { return FormatCB }
func (IMOperands) Format() Format { return FormatIM }
func (NoOperands) Format() Format { return FormatUnknown }

func (o ROperands) Fields() []Field {
	return []Field{{"rd", o.Rd}, {"rn", o.Rn}, {"rm", o.Rm}, {"shamt", o.Shamt}}
}

func (o IOperands) Fields() []Field {
	return []Field{{"rd", o.Rd}, {"rn", o.Rn}, {"imm12", o.Imm12}}
}

func (o DOperands) Fields() []Field {
	return []Field{{"rt", o.Rt}, {"rn", o.Rn}, {"addr9", o.Addr9}}
}

func (o BOperands) Fields() []Field {
	return []Field{{"imm26", o.Imm26}}
}

func (o CBOperands) Fields() []Field {
	return []Field{{"rt", o.Rt}, {"imm19", o.Imm19}}
}

func (o IMOperands) Fields() []Field {
	return []Field{{"rd", o.Rd}, {"imm16", o.Imm16}, {"sh", o.Sh}}
}

func (NoOperands) Fields() []Field { return nil }

func (ROperands) isOperands()  {}
func (IOperands) isOperands()  {}
func (DOperands) isOperands()  {}
func (BOperands) isOperands()  {}
func (CBOperands) isOperands() {}
func (IMOperands) isOperands() {}
func (NoOperands) isOperands() {}

// presentPrefix counts the leading present fields.
func presentPrefix(fields []Field) int {
	n := 0
	for _, f := range fields {
		if !f.Operand.IsPresent() {
			break
		}
		n++
	}
	return n
}

// Instruction represents a decoded assembly instruction.
type Instruction struct {
	Op       Op     // Operation code
	Format   Format // Operand format
	Operands Operands
}

// String renders the instruction in canonical assembly form. Decoding the
// result yields an equal Instruction.
func (i Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Op.String())

	args := make([]string, 0, 3)
	add := func(prefix string, o Operand) {
		if text, ok := o.Value(); ok {
			args = append(args, prefix+text)
		}
	}

	switch ops := i.Operands.(type) {
	case ROperands:
		add("", ops.Rd)
		add("", ops.Rn)
		add("", ops.Rm)
	case IOperands:
		add("", ops.Rd)
		add("", ops.Rn)
		add("#", ops.Imm12)
	case DOperands:
		add("", ops.Rt)
		if rn, ok := ops.Rn.Value(); ok {
			mem := "[" + rn
			if off, ok := ops.Addr9.Value(); ok {
				mem += ", #" + off
			}
			args = append(args, mem+"]")
		}
	case BOperands:
		add("", ops.Imm26)
	case CBOperands:
		add("", ops.Rt)
		add("", ops.Imm19)
	case IMOperands:
		add("", ops.Rd)
		add("#", ops.Imm16)
		add("LSL #", ops.Sh)
	}

	if len(args) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(args, ", "))
	}
	return sb.String()
}
