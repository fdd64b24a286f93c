package insts

import "fmt"

// Op represents a LEGv8 opcode.
type Op uint16

// LEGv8 opcodes.
const (
	OpUnknown Op = iota

	// Register arithmetic and logic
	OpADD
	OpADDS
	OpSUB
	OpSUBS
	OpAND
	OpANDS
	OpORR
	OpEOR
	OpLSL
	OpLSR
	OpASR
	OpMUL
	OpUMULH
	OpSMULH
	OpUDIV
	OpSDIV

	// Loads and stores
	OpLDUR
	OpSTUR
	OpLDURB
	OpSTURB
	OpLDURH
	OpSTURH
	OpLDURSW

	// Immediate arithmetic and logic
	OpADDI
	OpADDIS
	OpSUBI
	OpSUBIS
	OpANDI
	OpORRI
	OpEORI

	// Move wide immediate
	OpMOVZ
	OpMOVK
	OpMOVN
	OpMOV

	// Control flow
	OpCBZ
	OpCBNZ
	OpB
	OpBL
	OpBR

	OpCMP
	OpCMPI
	OpNOP
	OpRET

	// Sign and zero extension
	OpSXTW
	OpSXTB
	OpSXTH
	OpUXTB
	OpUXTH
	OpUXTW

	// Conditional branches
	OpBEQ
	OpBNE
	OpBGT
	OpBLT
	OpBGE
	OpBLE

	numOps
)

// Format represents an instruction operand layout.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR               // Three registers
	FormatI               // Two registers and an immediate
	FormatD               // Load/store target, base register and offset
	FormatB               // Branch target
	FormatCB              // Compared register and branch target
	FormatIM              // Register, wide immediate and optional shift
)

var formatNames = [...]string{
	FormatUnknown: "UNKNOWN",
	FormatR:       "R",
	FormatI:       "I",
	FormatD:       "D",
	FormatB:       "B",
	FormatCB:      "CB",
	FormatIM:      "IM",
}

// String returns the short name of the format.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// opInfo is one row of the mnemonic table.
type opInfo struct {
	mnemonic string
	format   Format

	// arity is the number of leading operand fields that must be present
	// for the instruction to be well formed.
	arity int
}

// opTable is the single source of truth for mnemonic and format of every Op.
var opTable = [numOps]opInfo{
	OpUnknown: {"UNKNOWN", FormatUnknown, 0},

	OpADD:   {"ADD", FormatR, 3},
	OpADDS:  {"ADDS", FormatR, 3},
	OpSUB:   {"SUB", FormatR, 3},
	OpSUBS:  {"SUBS", FormatR, 3},
	OpAND:   {"AND", FormatR, 3},
	OpANDS:  {"ANDS", FormatR, 3},
	OpORR:   {"ORR", FormatR, 3},
	OpEOR:   {"EOR", FormatR, 3},
	OpLSL:   {"LSL", FormatR, 3},
	OpLSR:   {"LSR", FormatR, 3},
	OpASR:   {"ASR", FormatR, 3},
	OpMUL:   {"MUL", FormatR, 3},
	OpUMULH: {"UMULH", FormatR, 3},
	OpSMULH: {"SMULH", FormatR, 3},
	OpUDIV:  {"UDIV", FormatR, 3},
	OpSDIV:  {"SDIV", FormatR, 3},

	OpLDUR:   {"LDUR", FormatD, 2},
	OpSTUR:   {"STUR", FormatD, 2},
	OpLDURB:  {"LDURB", FormatD, 2},
	OpSTURB:  {"STURB", FormatD, 2},
	OpLDURH:  {"LDURH", FormatD, 2},
	OpSTURH:  {"STURH", FormatD, 2},
	OpLDURSW: {"LDURSW", FormatD, 2},

	OpADDI:  {"ADDI", FormatI, 3},
	OpADDIS: {"ADDIS", FormatI, 3},
	OpSUBI:  {"SUBI", FormatI, 3},
	OpSUBIS: {"SUBIS", FormatI, 3},
	OpANDI:  {"ANDI", FormatI, 3},
	OpORRI:  {"ORRI", FormatI, 3},
	OpEORI:  {"EORI", FormatI, 3},

	OpMOVZ: {"MOVZ", FormatIM, 2},
	OpMOVK: {"MOVK", FormatIM, 2},
	OpMOVN: {"MOVN", FormatIM, 2},
	OpMOV:  {"MOV", FormatIM, 2},

	OpCBZ:  {"CBZ", FormatCB, 2},
	OpCBNZ: {"CBNZ", FormatCB, 2},
	OpB:    {"B", FormatB, 1},
	OpBL:   {"BL", FormatB, 1},
	OpBR:   {"BR", FormatB, 1},

	OpCMP:  {"CMP", FormatR, 2},
	OpCMPI: {"CMPI", FormatI, 2},
	OpNOP:  {"NOP", FormatR, 0},
	OpRET:  {"RET", FormatR, 0},

	OpSXTW: {"SXTW", FormatR, 2},
	OpSXTB: {"SXTB", FormatR, 2},
	OpSXTH: {"SXTH", FormatR, 2},
	OpUXTB: {"UXTB", FormatR, 2},
	OpUXTH: {"UXTH", FormatR, 2},
	OpUXTW: {"UXTW", FormatR, 2},

	OpBEQ: {"B.EQ", FormatB, 1},
	OpBNE: {"B.NE", FormatB, 1},
	OpBGT: {"B.GT", FormatB, 1},
	OpBLT: {"B.LT", FormatB, 1},
	OpBGE: {"B.GE", FormatB, 1},
	OpBLE: {"B.LE", FormatB, 1},
}

var opsByMnemonic = func() map[string]Op {
	m := make(map[string]Op, numOps)
	for op := OpUnknown + 1; op < numOps; op++ {
		m[opTable[op].mnemonic] = op
	}
	return m
}()

// Ops returns every known opcode, excluding OpUnknown, in table order.
func Ops() []Op {
	ops := make([]Op, 0, numOps-1)
	for op := OpUnknown + 1; op < numOps; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Lookup resolves a mnemonic to its opcode and format. Mnemonics are case
// sensitive. An unrecognized mnemonic yields OpUnknown, FormatUnknown and an
// error wrapping ErrUnknownMnemonic.
func Lookup(mnemonic string) (Op, Format, error) {
	op, ok := opsByMnemonic[mnemonic]
	if !ok {
		return OpUnknown, FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownMnemonic, mnemonic)
	}
	return op, opTable[op].format, nil
}

// String returns the assembly mnemonic of the opcode.
func (op Op) String() string {
	if op < numOps {
		return opTable[op].mnemonic
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// Format returns the operand format of the opcode.
func (op Op) Format() Format {
	if op < numOps {
		return opTable[op].format
	}
	return FormatUnknown
}

// Arity returns how many leading operand fields the opcode requires.
func (op Op) Arity() int {
	if op < numOps {
		return opTable[op].arity
	}
	return 0
}

// IsLoad returns true for the memory read opcodes.
func (op Op) IsLoad() bool {
	switch op {
	case OpLDUR, OpLDURB, OpLDURH, OpLDURSW:
		return true
	}
	return false
}

// IsStore returns true for the memory write opcodes.
func (op Op) IsStore() bool {
	switch op {
	case OpSTUR, OpSTURB, OpSTURH:
		return true
	}
	return false
}
