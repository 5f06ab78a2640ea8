package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Arithmetic instructions", func() {
		It("should decode ADD R1, R2, R3", func() {
			inst, err := decoder.Decode("ADD R1, R2, R3")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Src1).To(Equal(insts.Register(2)))
			Expect(inst.Src2).To(Equal(insts.Register(3)))
			Expect(inst.Target).To(Equal(insts.NoTarget))
		})

		It("should accept lines without commas", func() {
			inst, err := decoder.Decode("  MUL R4 R1   R2 ")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpMUL))
			Expect(inst.Rd).To(Equal(uint8(4)))
		})

		It("should decode integer literals as immediates", func() {
			inst, err := decoder.Decode("SUB R5, R3, -7")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Src2).To(Equal(insts.Immediate(-7)))
			Expect(inst.Src2.Coerced).To(BeFalse())
		})

		It("should coerce malformed operands to zero", func() {
			inst, err := decoder.Decode("DIV R6, foo, R32")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Src1.Kind).To(Equal(insts.OperandImmediate))
			Expect(inst.Src1.Imm).To(Equal(int64(0)))
			Expect(inst.Src1.Coerced).To(BeTrue())
			Expect(inst.Src2.Imm).To(Equal(int64(0)))
			Expect(inst.Src2.Coerced).To(BeTrue())
		})

		It("should ignore tokens past the fourth", func() {
			inst, err := decoder.Decode("ADD R1, R2, R3, R4")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Src2).To(Equal(insts.Register(3)))
		})

		It("should format back to assembly", func() {
			inst, _ := decoder.Decode("add r1,r2,5")
			Expect(inst.String()).To(Equal("ADD R1, R2, 5"))
		})
	})

	Describe("Branch instructions", func() {
		It("should decode BEQ left, right, target", func() {
			inst, err := decoder.Decode("BEQ R1, R2, 3")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpBEQ))
			Expect(inst.Src1).To(Equal(insts.Register(1)))
			Expect(inst.Src2).To(Equal(insts.Register(2)))
			Expect(inst.Target).To(Equal(3))
			Expect(inst.WritesReg()).To(BeFalse())
		})

		It("should accept a literal condition operand", func() {
			inst, err := decoder.Decode("BEQ 4, R2, 0")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Src1).To(Equal(insts.Immediate(4)))
		})

		It("should mark a non-numeric target as NoTarget", func() {
			inst, err := decoder.Decode("BEQ R1, R1, loop")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Target).To(Equal(insts.NoTarget))
			Expect(inst.String()).To(Equal("BEQ R1, R1, ?"))
		})

		It("should mark a negative target as NoTarget", func() {
			inst, err := decoder.Decode("BEQ R1, R1, -2")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Target).To(Equal(insts.NoTarget))
		})
	})

	Describe("Malformed lines", func() {
		It("should reject lines with fewer than 4 tokens", func() {
			_, err := decoder.Decode("ADD R1, R2")
			Expect(err).To(MatchError(insts.ErrTooFewTokens))

			_, err = decoder.Decode("")
			Expect(err).To(MatchError(insts.ErrTooFewTokens))
		})

		It("should reject unknown opcodes", func() {
			_, err := decoder.Decode("NOP R1, R2, R3")
			Expect(err).To(MatchError(insts.ErrUnknownOpcode))
		})

		It("should reject a destination that is not a register", func() {
			_, err := decoder.Decode("ADD 5, R2, R3")
			Expect(err).To(MatchError(insts.ErrBadDestination))
		})
	})

	Describe("DecodeProgram", func() {
		It("should number kept instructions and report dropped lines", func() {
			prog, dropped := decoder.DecodeProgram([]string{
				"ADD R1, R2, R3",
				"garbage",
				"MUL R4, R1, R2",
				"NOP R1 R1 R1",
			})

			Expect(prog).To(HaveLen(2))
			Expect(prog[0].Index).To(Equal(0))
			Expect(prog[1].Index).To(Equal(1))
			Expect(prog[1].Op).To(Equal(insts.OpMUL))
			Expect(prog[1].Line).To(Equal(2))

			Expect(dropped).To(HaveLen(2))
			Expect(dropped[0].Line).To(Equal(1))
			Expect(dropped[0]).To(MatchError(insts.ErrTooFewTokens))
			Expect(dropped[1].Line).To(Equal(3))
			Expect(dropped[1]).To(MatchError(insts.ErrUnknownOpcode))
		})

		It("should return an empty program for empty input", func() {
			prog, dropped := decoder.DecodeProgram(nil)
			Expect(prog).To(BeEmpty())
			Expect(dropped).To(BeEmpty())
		})
	})
})
