package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lcsim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("R-type", func() {
		// add 1 2 1 -> 655361
		It("should decode add 1 2 1", func() {
			inst := decoder.Decode(655361)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.RegA).To(Equal(uint8(1)))
			Expect(inst.RegB).To(Equal(uint8(2)))
			Expect(inst.Dest).To(Equal(uint8(1)))
			Expect(inst.Offset).To(Equal(int32(0)))
		})

		It("should decode nand 3 4 5", func() {
			inst := decoder.Decode(insts.NAND(3, 4, 5))

			Expect(inst.Op).To(Equal(insts.OpNAND))
			Expect(inst.RegA).To(Equal(uint8(3)))
			Expect(inst.RegB).To(Equal(uint8(4)))
			Expect(inst.Dest).To(Equal(uint8(5)))
		})
	})

	Describe("I-type", func() {
		// lw 0 1 7 -> 8454151
		It("should decode lw 0 1 7", func() {
			inst := decoder.Decode(8454151)

			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.RegA).To(Equal(uint8(0)))
			Expect(inst.RegB).To(Equal(uint8(1)))
			Expect(inst.Offset).To(Equal(int32(7)))
		})

		// beq 0 0 -3 -> 16842749
		It("should sign-extend a negative beq offset", func() {
			inst := decoder.Decode(16842749)

			Expect(inst.Op).To(Equal(insts.OpBEQ))
			Expect(inst.Offset).To(Equal(int32(-3)))
		})

		It("should decode sw with the maximum positive offset", func() {
			inst := decoder.Decode(insts.SW(2, 3, 32767))

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.RegA).To(Equal(uint8(2)))
			Expect(inst.RegB).To(Equal(uint8(3)))
			Expect(inst.Offset).To(Equal(int32(32767)))
		})

		It("should decode the minimum negative offset", func() {
			inst := decoder.Decode(insts.LW(0, 1, -32768))
			Expect(inst.Offset).To(Equal(int32(-32768)))
		})
	})

	Describe("J-type and O-type", func() {
		It("should decode jalr 4 7", func() {
			inst := decoder.Decode(insts.JALR(4, 7))

			Expect(inst.Op).To(Equal(insts.OpJALR))
			Expect(inst.RegA).To(Equal(uint8(4)))
			Expect(inst.RegB).To(Equal(uint8(7)))
		})

		It("should decode halt as 25165824", func() {
			Expect(decoder.Decode(25165824).Op).To(Equal(insts.OpHALT))
		})

		It("should decode noop as 29360128", func() {
			Expect(decoder.Decode(29360128).Op).To(Equal(insts.OpNOOP))
		})
	})

	Describe("Illegal opcodes", func() {
		It("should report negative words as illegal", func() {
			inst := decoder.Decode(-1)
			Expect(inst.Op).To(Equal(insts.OpIllegal))
			Expect(inst.Op.Valid()).To(BeFalse())
		})

		It("should report words wider than 25 bits as illegal", func() {
			inst := decoder.Decode(1 << 25)
			Expect(inst.Op).To(Equal(insts.OpIllegal))
		})

		It("should print illegal words as data", func() {
			Expect(decoder.Decode(-5).String()).To(HavePrefix("data "))
		})
	})

	Describe("Field accessors", func() {
		It("should extract the raw opcode with an arithmetic shift", func() {
			Expect(insts.Opcode(-1)).To(Equal(int32(-1)))
			Expect(insts.Opcode(insts.HALT())).To(Equal(int32(6)))
		})

		It("should sign extend 16-bit values", func() {
			Expect(insts.SignExtend16(0x7FFF)).To(Equal(int32(32767)))
			Expect(insts.SignExtend16(0x8000)).To(Equal(int32(-32768)))
			Expect(insts.SignExtend16(0xFFFF)).To(Equal(int32(-1)))
		})

		It("should format instructions like the state trace", func() {
			inst := decoder.Decode(insts.BEQ(0, 1, -1))
			Expect(inst.String()).To(Equal("beq 0 1 65535"))
		})
	})

	Describe("DestReg", func() {
		It("should use regB for lw", func() {
			reg, ok := decoder.Decode(insts.LW(0, 5, 3)).DestReg()
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(uint8(5)))
		})

		It("should use dest for add and nand", func() {
			reg, ok := decoder.Decode(insts.ADD(1, 2, 6)).DestReg()
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(uint8(6)))
		})

		It("should report no destination for sw, beq, jalr, halt and noop", func() {
			for _, w := range []int32{
				insts.SW(0, 1, 2), insts.BEQ(0, 1, 2), insts.JALR(1, 2),
				insts.HALT(), insts.NOOP(),
			} {
				_, ok := decoder.Decode(w).DestReg()
				Expect(ok).To(BeFalse())
			}
		})
	})

	Describe("Encoders", func() {
		It("should panic on offsets that do not fit in 16 bits", func() {
			Expect(func() { insts.LW(0, 1, 40000) }).To(Panic())
		})
	})
})
