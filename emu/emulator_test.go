package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
)

// countdown is the classic LC-2K sample program: it loads 5 and -1 and
// decrements register 1 until it reaches zero.
var countdown = []int32{
	8454151,  // lw 0 1 five
	9043971,  // lw 1 2 3
	655361,   // start add 1 2 1
	16842754, // beq 0 1 2
	16842749, // beq 0 0 start
	29360128, // noop
	25165824, // done halt
	5,        // five .fill 5
	-1,       // neg1 .fill -1
	2,        // stAddr .fill start
}

func newEmulator(words []int32, opts ...emu.EmulatorOption) *emu.Emulator {
	memory := emu.NewMemory()
	Expect(memory.LoadProgram(words)).To(Succeed())
	return emu.NewEmulator(memory, opts...)
}

var _ = Describe("Emulator", func() {
	Describe("NewEmulator", func() {
		It("should start with zeroed registers and PC", func() {
			e := newEmulator(countdown)
			Expect(e.RegFile().PC).To(Equal(int32(0)))
			Expect(e.RegFile().R).To(Equal([8]int32{}))
			Expect(e.Memory().NumMemory()).To(Equal(10))
		})
	})

	Describe("Run", func() {
		It("should run the countdown program to completion", func() {
			e := newEmulator(countdown)

			result, err := e.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Instructions).To(Equal(uint64(17)))
			Expect(e.RegFile().ReadReg(1)).To(Equal(int32(0)))
			Expect(e.RegFile().ReadReg(2)).To(Equal(int32(-1)))
			Expect(e.RegFile().PC).To(Equal(int32(7)))
			Expect(e.Halted()).To(BeTrue())
		})

		It("should stop at the instruction limit", func() {
			e := newEmulator([]int32{insts.BEQ(0, 0, -1)}, emu.WithMaxInstructions(10))

			result, err := e.Run()

			Expect(err).To(MatchError(emu.ErrInstructionLimit))
			Expect(result.Instructions).To(Equal(uint64(10)))
		})
	})

	Describe("Step", func() {
		Context("ALU instructions", func() {
			It("should execute add", func() {
				e := newEmulator([]int32{insts.ADD(1, 2, 3)})
				e.RegFile().WriteReg(1, 10)
				e.RegFile().WriteReg(2, 32)

				result := e.Step()

				Expect(result.Err).NotTo(HaveOccurred())
				Expect(e.RegFile().ReadReg(3)).To(Equal(int32(42)))
				Expect(e.RegFile().PC).To(Equal(int32(1)))
			})

			It("should execute nand", func() {
				e := newEmulator([]int32{insts.NAND(1, 2, 3)})
				e.RegFile().WriteReg(1, 0x0F)
				e.RegFile().WriteReg(2, 0x3C)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().ReadReg(3)).To(Equal(int32(^(0x0F & 0x3C))))
			})

			It("should allow writes to register 0", func() {
				e := newEmulator([]int32{insts.ADD(1, 1, 0)})
				e.RegFile().WriteReg(1, 7)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().ReadReg(0)).To(Equal(int32(14)))
			})

			It("should wrap on overflow", func() {
				e := newEmulator([]int32{insts.ADD(1, 2, 3)})
				e.RegFile().WriteReg(1, 2147483647)
				e.RegFile().WriteReg(2, 1)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().ReadReg(3)).To(Equal(int32(-2147483648)))
			})
		})

		Context("memory instructions", func() {
			It("should execute lw", func() {
				e := newEmulator([]int32{insts.LW(1, 2, 2), 0, 0, 99})
				e.RegFile().WriteReg(1, 1)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().ReadReg(2)).To(Equal(int32(99)))
			})

			It("should execute sw", func() {
				e := newEmulator([]int32{insts.SW(0, 1, 5)})
				e.RegFile().WriteReg(1, -12)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.Memory().Read(5)).To(Equal(int32(-12)))
			})

			It("should fault on an out-of-bounds address", func() {
				e := newEmulator([]int32{insts.LW(0, 1, -1)})

				result := e.Step()

				Expect(result.Err).To(MatchError(emu.ErrAddressOutOfBounds))
			})
		})

		Context("control instructions", func() {
			It("should take beq when registers are equal", func() {
				e := newEmulator([]int32{insts.BEQ(1, 2, 3)})
				e.RegFile().WriteReg(1, 4)
				e.RegFile().WriteReg(2, 4)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().PC).To(Equal(int32(4)))
			})

			It("should fall through beq when registers differ", func() {
				e := newEmulator([]int32{insts.BEQ(1, 2, 3)})
				e.RegFile().WriteReg(1, 4)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().PC).To(Equal(int32(1)))
			})

			It("should execute jalr", func() {
				e := newEmulator([]int32{insts.JALR(1, 2)})
				e.RegFile().WriteReg(1, 9)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().PC).To(Equal(int32(9)))
				Expect(e.RegFile().ReadReg(2)).To(Equal(int32(1)))
			})

			It("should continue at pc+1 for jalr with regA == regB", func() {
				e := newEmulator([]int32{insts.JALR(3, 3)})
				e.RegFile().WriteReg(3, 40)

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.RegFile().PC).To(Equal(int32(1)))
			})

			It("should report halt", func() {
				e := newEmulator([]int32{insts.HALT()})

				result := e.Step()

				Expect(result.Halted).To(BeTrue())
				Expect(e.InstructionCount()).To(Equal(uint64(1)))
			})
		})

		Context("faults", func() {
			It("should fault on an illegal opcode", func() {
				e := newEmulator([]int32{-1})

				Expect(e.Step().Err).To(MatchError(emu.ErrIllegalOpcode))
			})

			It("should fault when the pc leaves memory", func() {
				e := newEmulator([]int32{insts.BEQ(0, 0, -2)})

				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(e.Step().Err).To(MatchError(emu.ErrPCOutOfBounds))
			})
		})

		It("should call the step hook before each instruction", func() {
			var seen []insts.Op
			e := newEmulator([]int32{insts.NOOP(), insts.HALT()},
				emu.WithStepHook(func(_ int32, inst *insts.Instruction) {
					seen = append(seen, inst.Op)
				}))

			_, err := e.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal([]insts.Op{insts.OpNOOP, insts.OpHALT}))
		})
	})
})
