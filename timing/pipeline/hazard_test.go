package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lcsim/insts"
	"github.com/sarchlab/lcsim/timing/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var hazardUnit *pipeline.HazardUnit

	BeforeEach(func() {
		hazardUnit = pipeline.NewHazardUnit()
	})

	Describe("DetectLoadUse", func() {
		var idex *pipeline.IDEX

		BeforeEach(func() {
			// lw 0 1 7: destination is register 1
			idex = &pipeline.IDEX{Valid: true, Instr: insts.LW(0, 1, 7)}
		})

		It("should not stall when ID/EX is not a load", func() {
			idex.Instr = insts.ADD(0, 0, 1)
			ifid := &pipeline.IFID{Instr: insts.ADD(1, 1, 2)}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeFalse())
		})

		It("should stall when the consumer reads the load result as regA", func() {
			ifid := &pipeline.IFID{Instr: insts.ADD(1, 3, 2)}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeTrue())
		})

		It("should stall when the consumer reads the load result as regB", func() {
			ifid := &pipeline.IFID{Instr: insts.NAND(3, 1, 2)}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeTrue())
		})

		It("should stall a store whose data is the load result", func() {
			ifid := &pipeline.IFID{Instr: insts.SW(0, 1, 9)}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeTrue())
		})

		It("should check only regA of a consuming load", func() {
			ifid := &pipeline.IFID{Instr: insts.LW(0, 1, 8)}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeFalse())

			ifid.Instr = insts.LW(1, 2, 0)
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeTrue())
		})

		It("should never stall a NOOP", func() {
			ifid := &pipeline.IFID{Instr: insts.NoopWord}
			idex.Instr = insts.LW(0, 0, 7)
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeFalse())
		})

		It("should check HALT fields like any other opcode", func() {
			idex.Instr = insts.LW(0, 0, 7)
			ifid := &pipeline.IFID{Instr: insts.HALT()}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeTrue())
		})

		It("should not stall on independent instructions", func() {
			ifid := &pipeline.IFID{Instr: insts.ADD(2, 3, 1)}
			Expect(hazardUnit.DetectLoadUse(idex, ifid)).To(BeFalse())
		})
	})

	Describe("DetectForwarding", func() {
		var (
			idex  *pipeline.IDEX
			exmem *pipeline.EXMEM
			memwb *pipeline.MEMWB
			wbend *pipeline.WBEND
		)

		BeforeEach(func() {
			idex = &pipeline.IDEX{Valid: true, Instr: insts.ADD(1, 2, 3)}
			exmem = &pipeline.EXMEM{Instr: insts.NoopWord}
			memwb = &pipeline.MEMWB{Instr: insts.NoopWord}
			wbend = &pipeline.WBEND{Instr: insts.NoopWord}
		})

		Context("when no forwarding is needed", func() {
			It("should return ForwardNone for both operands", func() {
				result := hazardUnit.DetectForwarding(idex, exmem, memwb, wbend)

				Expect(result.ForwardRegA).To(Equal(pipeline.ForwardNone))
				Expect(result.ForwardRegB).To(Equal(pipeline.ForwardNone))
				Expect(result.Any()).To(BeFalse())
			})
		})

		It("should forward regA from an ADD in EX/MEM", func() {
			exmem.Instr = insts.ADD(0, 0, 1)

			result := hazardUnit.DetectForwarding(idex, exmem, memwb, wbend)

			Expect(result.ForwardRegA).To(Equal(pipeline.ForwardFromEXMEM))
			Expect(result.ForwardRegB).To(Equal(pipeline.ForwardNone))
		})

		It("should forward regB from a load in MEM/WB", func() {
			memwb.Instr = insts.LW(0, 2, 5)

			result := hazardUnit.DetectForwarding(idex, exmem, memwb, wbend)

			Expect(result.ForwardRegA).To(Equal(pipeline.ForwardNone))
			Expect(result.ForwardRegB).To(Equal(pipeline.ForwardFromMEMWB))
		})

		It("should forward from WB/END", func() {
			wbend.Instr = insts.NAND(4, 5, 2)

			result := hazardUnit.DetectForwarding(idex, exmem, memwb, wbend)

			Expect(result.ForwardRegB).To(Equal(pipeline.ForwardFromWBEND))
		})

		It("should prefer the nearest producer", func() {
			exmem.Instr = insts.ADD(0, 0, 1)
			memwb.Instr = insts.ADD(0, 0, 1)
			wbend.Instr = insts.ADD(0, 0, 1)
			Expect(hazardUnit.DetectForwarding(idex, exmem, memwb, wbend).ForwardRegA).
				To(Equal(pipeline.ForwardFromEXMEM))

			exmem.Instr = insts.NoopWord
			Expect(hazardUnit.DetectForwarding(idex, exmem, memwb, wbend).ForwardRegA).
				To(Equal(pipeline.ForwardFromMEMWB))

			memwb.Instr = insts.NoopWord
			Expect(hazardUnit.DetectForwarding(idex, exmem, memwb, wbend).ForwardRegA).
				To(Equal(pipeline.ForwardFromWBEND))
		})

		It("should ignore instructions that write no register", func() {
			exmem.Instr = insts.SW(0, 1, 1)
			memwb.Instr = insts.BEQ(1, 1, 0)
			wbend.Instr = insts.JALR(2, 1)

			result := hazardUnit.DetectForwarding(idex, exmem, memwb, wbend)

			Expect(result.Any()).To(BeFalse())
		})

		It("should forward on a match of the load's regB, not its regA", func() {
			exmem.Instr = insts.LW(1, 0, 0)

			result := hazardUnit.DetectForwarding(idex, exmem, memwb, wbend)

			Expect(result.ForwardRegA).To(Equal(pipeline.ForwardNone))
		})
	})

	Describe("ForwardedValue", func() {
		exmem := &pipeline.EXMEM{ALUResult: 10}
		memwb := &pipeline.MEMWB{WriteData: 20}
		wbend := &pipeline.WBEND{WriteData: 30}

		DescribeTable("should pick the value of the source latch",
			func(source pipeline.ForwardSource, expected int32) {
				Expect(hazardUnit.ForwardedValue(source, 99, exmem, memwb, wbend)).
					To(Equal(expected))
			},
			Entry("none", pipeline.ForwardNone, int32(99)),
			Entry("EX/MEM", pipeline.ForwardFromEXMEM, int32(10)),
			Entry("MEM/WB", pipeline.ForwardFromMEMWB, int32(20)),
			Entry("WB/END", pipeline.ForwardFromWBEND, int32(30)),
		)
	})

	Describe("ForwardSource", func() {
		It("should name the latch", func() {
			Expect(pipeline.ForwardFromEXMEM.String()).To(Equal("EXMEM"))
			Expect(pipeline.ForwardNone.String()).To(Equal("none"))
		})
	})
})
