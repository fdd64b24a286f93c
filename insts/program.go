package insts

import "strings"

// Program is an ordered sequence of decoded instructions. Index order is
// textual order and execution order.
type Program []Instruction

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p)
}

// At returns the instruction at index i, or nil if i is out of range.
func (p Program) At(i int) *Instruction {
	if i < 0 || i >= len(p) {
		return nil
	}
	return &p[i]
}

// DecodeProgram decodes a batch of lines into a Program with exactly one
// instruction per line. Lines that fail to decode keep their placeholder or
// partial instruction and add a DecodeError; decoding always continues.
func DecodeProgram(lines []string) (Program, []*DecodeError) {
	decoder := NewDecoder()
	prog := make(Program, 0, len(lines))

	var errs []*DecodeError
	for i, line := range lines {
		line = strings.TrimRight(line, "\r\n")

		inst, err := decoder.Decode(line)
		prog = append(prog, *inst)

		if err != nil {
			errs = append(errs, &DecodeError{Line: i + 1, Text: line, Err: err})
		}
	}

	return prog, errs
}
