package insts

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMnemonic is returned when a mnemonic is not in the table.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")

	// ErrMalformedOperands is returned when required operands are missing.
	ErrMalformedOperands = errors.New("malformed operands")
)

// DecodeError reports a problem with one line of a batch decode.
type DecodeError struct {
	// Line is the 1-based position of the line in the batch.
	Line int
	// Text is the raw line.
	Text string
	// Err is the underlying decode error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
