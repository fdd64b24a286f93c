package insts

import "fmt"

// Decoder decodes LEGv8 assembly text into instructions.
type Decoder struct{}

// NewDecoder creates a new LEGv8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes one line of assembly text.
//
// It always returns an instruction. An unknown mnemonic produces an
// OpUnknown placeholder and an error wrapping ErrUnknownMnemonic. Missing
// operands leave fields absent and produce an error wrapping
// ErrMalformedOperands; the partial instruction is still usable.
func (d *Decoder) Decode(line string) (*Instruction, error) {
	s := newScanner(line)
	mnemonic := s.readMnemonic()

	op, format, lookupErr := Lookup(mnemonic)
	inst := &Instruction{Op: op, Format: format}

	switch format {
	case FormatR:
		inst.Operands = d.decodeR(s)
	case FormatI:
		inst.Operands = d.decodeI(s)
	case FormatD:
		inst.Operands = d.decodeD(s)
	case FormatB:
		inst.Operands = d.decodeB(s)
	case FormatCB:
		inst.Operands = d.decodeCB(s)
	case FormatIM:
		inst.Operands = d.decodeIM(s)
	default:
		inst.Operands = NoOperands{}
	}

	if lookupErr != nil {
		return inst, lookupErr
	}

	if got := presentPrefix(inst.Operands.Fields()); got < op.Arity() {
		return inst, fmt.Errorf("%w: %s expects %d operands, found %d",
			ErrMalformedOperands, op, op.Arity(), got)
	}

	return inst, nil
}

// decodeR decodes "rd, rn, rm". A shift amount is never parsed.
func (d *Decoder) decodeR(s *scanner) ROperands {
	var o ROperands

	o.Rd = s.readToken(stopField)
	s.skipSeparator()

	o.Rn = s.readToken(stopField)
	s.skipSeparator()

	o.Rm = s.readToken(stopField)

	return o
}

// decodeI decodes "rd, rn, #imm12". The immediate is the last field so its
// stop set excludes the comma.
func (d *Decoder) decodeI(s *scanner) IOperands {
	var o IOperands

	o.Rd = s.readToken(stopField)
	s.skipSeparator()

	o.Rn = s.readToken(stopField)
	s.skipSeparator()

	s.skipByte('#')
	o.Imm12 = s.readToken(stopLast)

	return o
}

// decodeD decodes "rt, [rn, #addr9]". Brackets and the offset are optional.
func (d *Decoder) decodeD(s *scanner) DOperands {
	var o DOperands

	o.Rt = s.readToken(stopField)
	s.skipSeparator()

	s.skipByte('[')
	o.Rn = s.readToken(stopBase)
	s.skipSeparator()

	s.skipByte('#')
	o.Addr9 = s.readToken(stopOffset)

	s.skipByte(']')

	return o
}

// decodeB decodes a single branch target.
func (d *Decoder) decodeB(s *scanner) BOperands {
	return BOperands{Imm26: s.readToken(stopLast)}
}

// decodeCB decodes "rt, imm19".
func (d *Decoder) decodeCB(s *scanner) CBOperands {
	var o CBOperands

	o.Rt = s.readToken(stopField)
	s.skipSeparator()

	o.Imm19 = s.readToken(stopLast)

	return o
}

// decodeIM decodes "rd, #imm16" with an optional ", LSL #sh" clause.
func (d *Decoder) decodeIM(s *scanner) IMOperands {
	var o IMOperands

	o.Rd = s.readToken(stopField)
	s.skipSeparator()

	s.skipByte('#')
	o.Imm16 = s.readToken(stopField)
	s.skipSeparator()

	if s.peek() == 'L' {
		s.skipWord()
		s.skipByte('#')
		o.Sh = s.readToken(stopLast)
	}

	return o
}
