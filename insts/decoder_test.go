package insts_test

import (
	"errors"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	op := insts.NewOperand

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	decode := func(line string) *insts.Instruction {
		inst, err := decoder.Decode(line)
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	Describe("R format", func() {
		It("should decode ADD X3, X1, X4", func() {
			inst := decode("ADD X3, X1, X4")

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatR))
			Expect(inst.Operands).To(Equal(insts.ROperands{
				Rd: op("X3"), Rn: op("X1"), Rm: op("X4"),
			}))
		})

		It("should accept separators without spaces", func() {
			inst := decode("SUB X4,X5,X6")

			Expect(inst.Operands).To(Equal(insts.ROperands{
				Rd: op("X4"), Rn: op("X5"), Rm: op("X6"),
			}))
		})

		It("should accept blank separated operands", func() {
			inst := decode("EOR X1 X2 X3")

			Expect(inst.Operands).To(Equal(insts.ROperands{
				Rd: op("X1"), Rn: op("X2"), Rm: op("X3"),
			}))
		})

		It("should never parse a shift amount", func() {
			inst := decode("LSL X1, X2, #3")
			r := inst.Operands.(insts.ROperands)

			Expect(r.Rm.Matches("#3")).To(BeTrue())
			Expect(r.Shamt.IsPresent()).To(BeFalse())
		})

		It("should decode CMP with two operands", func() {
			inst := decode("CMP X1, X2")
			r := inst.Operands.(insts.ROperands)

			Expect(r.Rd.Matches("X1")).To(BeTrue())
			Expect(r.Rn.Matches("X2")).To(BeTrue())
			Expect(r.Rm.IsPresent()).To(BeFalse())
		})

		It("should decode NOP without operands", func() {
			inst := decode("NOP")

			Expect(inst.Op).To(Equal(insts.OpNOP))
			Expect(inst.Operands).To(Equal(insts.ROperands{}))
		})
	})

	Describe("I format", func() {
		It("should decode ADDI X1, X2, #4", func() {
			inst := decode("ADDI X1, X2, #4")

			Expect(inst.Format).To(Equal(insts.FormatI))
			Expect(inst.Operands).To(Equal(insts.IOperands{
				Rd: op("X1"), Rn: op("X2"), Imm12: op("4"),
			}))
		})

		It("should accept an immediate without #", func() {
			inst := decode("SUBI X1, X2, 16")

			Expect(inst.Operands.(insts.IOperands).Imm12).To(Equal(op("16")))
		})
	})

	Describe("D format", func() {
		It("should decode LDUR X1, [X2, #8]", func() {
			inst := decode("LDUR X1, [X2, #8]")

			Expect(inst.Op).To(Equal(insts.OpLDUR))
			Expect(inst.Format).To(Equal(insts.FormatD))
			Expect(inst.Operands).To(Equal(insts.DOperands{
				Rt: op("X1"), Rn: op("X2"), Addr9: op("8"),
			}))
		})

		It("should decode a negative offset", func() {
			inst := decode("STUR X9, [SP, #-16]")

			Expect(inst.Operands).To(Equal(insts.DOperands{
				Rt: op("X9"), Rn: op("SP"), Addr9: op("-16"),
			}))
		})

		It("should tolerate missing brackets", func() {
			inst := decode("LDURB X1, X2, #0")

			Expect(inst.Operands).To(Equal(insts.DOperands{
				Rt: op("X1"), Rn: op("X2"), Addr9: op("0"),
			}))
		})

		It("should leave the offset absent when omitted", func() {
			inst := decode("LDUR X1, [X2]")
			d := inst.Operands.(insts.DOperands)

			Expect(d.Rn).To(Equal(op("X2")))
			Expect(d.Addr9.IsPresent()).To(BeFalse())
		})
	})

	Describe("B format", func() {
		It("should decode B loop", func() {
			inst := decode("B loop")

			Expect(inst.Format).To(Equal(insts.FormatB))
			Expect(inst.Operands).To(Equal(insts.BOperands{Imm26: op("loop")}))
		})

		DescribeTable("conditional branches",
			func(line string, want insts.Op) {
				inst := decode(line)

				Expect(inst.Op).To(Equal(want))
				Expect(inst.Operands).To(Equal(insts.BOperands{Imm26: op("#12")}))
			},
			Entry("B.EQ", "B.EQ #12", insts.OpBEQ),
			Entry("B.NE", "B.NE #12", insts.OpBNE),
			Entry("B.GT", "B.GT #12", insts.OpBGT),
			Entry("B.LT", "B.LT #12", insts.OpBLT),
			Entry("B.GE", "B.GE #12", insts.OpBGE),
			Entry("B.LE", "B.LE #12", insts.OpBLE),
		)
	})

	Describe("CB format", func() {
		It("should decode CBZ X1, done", func() {
			inst := decode("CBZ X1, done")

			Expect(inst.Format).To(Equal(insts.FormatCB))
			Expect(inst.Operands).To(Equal(insts.CBOperands{
				Rt: op("X1"), Imm19: op("done"),
			}))
		})
	})

	Describe("IM format", func() {
		It("should decode MOVZ X0, #4", func() {
			inst := decode("MOVZ X0, #4")

			Expect(inst.Format).To(Equal(insts.FormatIM))
			Expect(inst.Operands).To(Equal(insts.IMOperands{
				Rd: op("X0"), Imm16: op("4"),
			}))
		})

		It("should decode MOVZ X0, #4, LSL #16", func() {
			inst := decode("MOVZ X0, #4, LSL #16")

			Expect(inst.Operands).To(Equal(insts.IMOperands{
				Rd: op("X0"), Imm16: op("4"), Sh: op("16"),
			}))
		})

		It("should ignore trailing text that is not a shift", func() {
			inst := decode("MOVK X0, #4, #16")

			Expect(inst.Operands.(insts.IMOperands).Sh.IsPresent()).To(BeFalse())
		})
	})

	Describe("Unknown mnemonics", func() {
		It("should return a placeholder and ErrUnknownMnemonic", func() {
			inst, err := decoder.Decode("FOO X1, X2")

			Expect(err).To(MatchError(insts.ErrUnknownMnemonic))
			Expect(inst).NotTo(BeNil())
			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Format).To(Equal(insts.FormatUnknown))
			Expect(inst.Operands).To(Equal(insts.NoOperands{}))
		})
	})

	Describe("Malformed operands", func() {
		It("should keep the partial instruction", func() {
			inst, err := decoder.Decode("ADD X1")

			Expect(err).To(MatchError(insts.ErrMalformedOperands))
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Operands).To(Equal(insts.ROperands{Rd: op("X1")}))
		})

		It("should flag a load without a base register", func() {
			inst, err := decoder.Decode("LDUR X1")

			Expect(errors.Is(err, insts.ErrMalformedOperands)).To(BeTrue())
			Expect(inst.Operands.(insts.DOperands).Rn.IsPresent()).To(BeFalse())
		})

		It("should flag a branch without a target", func() {
			_, err := decoder.Decode("B")

			Expect(err).To(MatchError(insts.ErrMalformedOperands))
		})
	})

	Describe("Canonical form", func() {
		DescribeTable("re-decoding String() yields an equal instruction",
			func(line, canonical string) {
				first := decode(line)
				Expect(first.String()).To(Equal(canonical))

				second := decode(first.String())
				Expect(cmp.Diff(*first, *second)).To(BeEmpty())
			},
			Entry("R", "ADD X3,X1,X4", "ADD X3, X1, X4"),
			Entry("R shift", "LSL X1, X2, #3", "LSL X1, X2, #3"),
			Entry("R no operands", "RET", "RET"),
			Entry("I", "ADDI X1, X2, 4", "ADDI X1, X2, #4"),
			Entry("I compare", "CMPI X1, #5", "CMPI X1, #5"),
			Entry("D", "LDUR X1, [X2, #0]", "LDUR X1, [X2, #0]"),
			Entry("D no offset", "STUR X1, [X2]", "STUR X1, [X2]"),
			Entry("B", "BL func", "BL func"),
			Entry("B cond", "B.GE #-8", "B.GE #-8"),
			Entry("CB", "CBNZ X3, loop", "CBNZ X3, loop"),
			Entry("IM", "MOVZ X0, #4", "MOVZ X0, #4"),
			Entry("IM shifted", "MOVK X0, #4, LSL #16", "MOVK X0, #4, LSL #16"),
			Entry("IM register", "MOV X1, X2", "MOV X1, #X2"),
		)
	})
})

var _ = Describe("DecodeProgram", func() {
	It("should decode one instruction per line in order", func() {
		prog, errs := insts.DecodeProgram([]string{
			"LDUR X1, [X2, #0]",
			"ADD X3, X1, X4\r\n",
		})

		Expect(errs).To(BeEmpty())
		Expect(prog.Len()).To(Equal(2))
		Expect(prog[0].Op).To(Equal(insts.OpLDUR))
		Expect(prog[1].Op).To(Equal(insts.OpADD))
		Expect(prog[1].Operands.(insts.ROperands).Rm).To(Equal(insts.NewOperand("X4")))
	})

	It("should keep decoding after an unknown mnemonic", func() {
		prog, errs := insts.DecodeProgram([]string{
			"FOO X1, X2",
			"ADD X1, X2, X3",
		})

		Expect(prog.Len()).To(Equal(2))
		Expect(prog[0].Op).To(Equal(insts.OpUnknown))
		Expect(prog[1].Op).To(Equal(insts.OpADD))

		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Line).To(Equal(1))
		Expect(errs[0].Text).To(Equal("FOO X1, X2"))
		Expect(errs[0]).To(MatchError(insts.ErrUnknownMnemonic))
	})

	It("should report errors with 1-based line numbers", func() {
		_, errs := insts.DecodeProgram([]string{
			"ADD X1, X2, X3",
			"SUB X1",
			"BAR",
		})

		Expect(errs).To(HaveLen(2))
		Expect(errs[0].Line).To(Equal(2))
		Expect(errs[0]).To(MatchError(insts.ErrMalformedOperands))
		Expect(errs[1].Line).To(Equal(3))
		Expect(errs[1].Error()).To(ContainSubstring("line 3"))
	})

	It("should return an empty program for no lines", func() {
		prog, errs := insts.DecodeProgram(nil)

		Expect(prog.Len()).To(Equal(0))
		Expect(prog.At(0)).To(BeNil())
		Expect(errs).To(BeEmpty())
	})
})
