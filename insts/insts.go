// Package insts provides LEGv8 assembly instruction definitions and decoding.
//
// This package turns one line of assembly text into a structured instruction.
// It supports the following operand formats:
//   - R: three-register arithmetic and logic (ADD X1, X2, X3)
//   - I: register plus immediate (ADDI X1, X2, #4)
//   - D: loads and stores (LDUR X1, [X2, #8])
//   - B: unconditional and condition-coded branches (B label, B.EQ label)
//   - CB: compare-and-branch (CBZ X1, label)
//   - IM: move wide immediate (MOVZ X0, #4, LSL #16)
//
// Operands are kept as opaque text tokens. Registers are never resolved to
// numbers and immediates are never range checked.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode("LDUR X1, [X2, #0]")
//	d := inst.Operands.(insts.DOperands)
//	fmt.Printf("Op: %v, Rt: %v, Rn: %v\n", inst.Op, d.Rt, d.Rn)
package insts
