package multicycle_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
	"github.com/sarchlab/lcsim/timing/multicycle"
)

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

func newMemory(words []int32) *emu.Memory {
	memory := emu.NewMemory()
	Expect(memory.LoadProgram(words)).To(Succeed())
	return memory
}

var _ = Describe("Machine", func() {
	It("should take five cycles for a lone HALT", func() {
		m := multicycle.NewMachine(newMemory([]int32{insts.HALT()}))

		result, err := m.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Cycles).To(Equal(uint64(5)))
		Expect(result.Instructions).To(Equal(uint64(1)))
		Expect(m.Halted()).To(BeTrue())
		Expect(m.State()).To(Equal(multicycle.StateHalt))
	})

	It("should wait on memory latency for addresses not divisible by 3", func() {
		m := multicycle.NewMachine(newMemory([]int32{insts.NOOP(), insts.HALT()}))

		result, err := m.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Cycles).To(Equal(uint64(10)))
		Expect(result.CPI()).To(Equal(5.0))
	})

	DescribeTable("should match the single-cycle emulator",
		func(words []int32) {
			oracleMem := newMemory(words)
			oracle := emu.NewEmulator(oracleMem)
			oracleResult, err := oracle.Run()
			Expect(err).NotTo(HaveOccurred())

			m := multicycle.NewMachine(newMemory(words))
			result, err := m.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(m.RegFile()).To(Equal(*oracle.RegFile()))
			Expect(m.Memory().Words(len(words))).To(Equal(oracleMem.Words(len(words))))
			Expect(result.Instructions).To(Equal(oracleResult.Instructions))
		},
		Entry("countdown", countdown),
		Entry("store and load", []int32{
			insts.LW(0, 1, 5),
			insts.NAND(1, 1, 2),
			insts.SW(0, 2, 6),
			insts.LW(0, 3, 6),
			insts.HALT(),
			12,
			0,
		}),
		Entry("jalr call and return", []int32{
			insts.LW(0, 1, 5),
			insts.JALR(1, 7),
			insts.HALT(),
			insts.NOOP(),
			insts.JALR(7, 6),
			4,
		}),
	)

	Describe("faults", func() {
		It("should fail on an illegal opcode", func() {
			m := multicycle.NewMachine(newMemory([]int32{-1}))

			_, err := m.Run()

			Expect(err).To(MatchError(emu.ErrIllegalOpcode))
		})

		It("should fail on an out-of-range load", func() {
			m := multicycle.NewMachine(newMemory([]int32{insts.LW(0, 1, -2), insts.HALT()}))

			_, err := m.Run()

			Expect(err).To(MatchError(emu.ErrAddressOutOfBounds))
		})

		It("should fail when the PC leaves memory", func() {
			m := multicycle.NewMachine(newMemory([]int32{insts.BEQ(0, 0, -3)}))

			_, err := m.Run()

			Expect(err).To(MatchError(emu.ErrPCOutOfBounds))
		})

		It("should stop at the cycle limit", func() {
			m := multicycle.NewMachine(newMemory(countdown), multicycle.WithMaxCycles(7))

			result, err := m.Run()

			Expect(err).To(MatchError(emu.ErrInstructionLimit))
			Expect(result.Cycles).To(Equal(uint64(7)))
		})
	})

	Describe("WithTraceWriter", func() {
		It("should print every state visit", func() {
			var buf bytes.Buffer
			m := multicycle.NewMachine(newMemory([]int32{insts.HALT()}),
				multicycle.WithTraceWriter(&buf))

			_, err := m.Run()
			Expect(err).NotTo(HaveOccurred())

			out := buf.String()
			Expect(strings.Count(out, "@@@")).To(Equal(5))
			Expect(out).To(ContainSubstring("state fetch (cycle 0)"))
			Expect(out).To(ContainSubstring("state ldRegA (cycle 3)"))
			Expect(out).To(ContainSubstring("state ALUhalt (cycle 4)"))
			Expect(out).To(ContainSubstring("\t\tinstrReg 25165824\n"))
		})
	})
})

var _ = Describe("LatencyMemory", func() {
	var memory *emu.Memory
	var latency *multicycle.LatencyMemory

	BeforeEach(func() {
		memory = emu.NewMemory()
		memory.Write(5, 55)
		latency = multicycle.NewLatencyMemory(memory)
	})

	It("should delay a new access by address mod 3", func() {
		_, ready, err := latency.Read(5)
		Expect(err).NotTo(HaveOccurred())
		Expect(ready).To(BeFalse())

		_, ready, _ = latency.Read(5)
		Expect(ready).To(BeFalse())

		value, ready, _ := latency.Read(5)
		Expect(ready).To(BeTrue())
		Expect(value).To(Equal(int32(55)))
	})

	It("should complete a repeated access at once", func() {
		for {
			if _, ready, _ := latency.Read(3); ready {
				break
			}
		}
		_, ready, _ := latency.Read(3)
		Expect(ready).To(BeTrue())
	})

	It("should restart the delay when write data changes", func() {
		ready, _ := latency.Write(4, 1)
		Expect(ready).To(BeFalse())
		ready, _ = latency.Write(4, 2)
		Expect(ready).To(BeFalse())
		ready, _ = latency.Write(4, 2)
		Expect(ready).To(BeTrue())
		Expect(memory.Read(4)).To(Equal(int32(2)))
	})

	It("should reject addresses outside memory", func() {
		_, _, err := latency.Read(emu.MaxMemory)
		Expect(err).To(MatchError(emu.ErrAddressOutOfBounds))
	})
})

var _ = Describe("State", func() {
	It("should print trace names", func() {
		Expect(multicycle.StateALUNand.String()).To(Equal("ALUnand"))
		Expect(multicycle.State(99).String()).To(Equal("State(99)"))
	})
})
