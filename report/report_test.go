package report_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/report"
	"github.com/sarchlab/lcsim/timing/cache"
)

var _ = Describe("Report", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("WriteState", func() {
		It("should list the pc, registers and loaded memory", func() {
			mem := emu.NewMemory()
			Expect(mem.LoadProgram([]int32{25165824, -1})).To(Succeed())
			regs := emu.RegFile{PC: 1}
			regs.R[3] = 42

			Expect(report.WriteState(buf, regs, mem)).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring("Registers"))
			Expect(out).To(ContainSubstring("reg[3]"))
			Expect(out).To(ContainSubstring("42"))
			Expect(out).To(ContainSubstring("25165824"))
			Expect(out).To(ContainSubstring("0x01800000"))
			Expect(out).To(ContainSubstring("0xffffffff"))
		})
	})

	Describe("WriteSummary", func() {
		It("should print cycles and CPI for timed models", func() {
			s := report.Summary{
				Model:        "pipeline",
				Cycles:       10,
				Instructions: 4,
				Stalls:       1,
				Flushes:      2,
			}

			Expect(report.WriteSummary(buf, s)).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring("Summary (pipeline)"))
			Expect(out).To(ContainSubstring("2.500"))
			Expect(out).To(ContainSubstring("Flushes"))
			Expect(out).NotTo(ContainSubstring("Hit rate"))
		})

		It("should omit cycle rows for the single-cycle model", func() {
			s := report.Summary{Model: "single", Instructions: 7}

			Expect(report.WriteSummary(buf, s)).To(Succeed())

			Expect(s.CPI()).To(BeZero())
			Expect(buf.String()).NotTo(ContainSubstring("CPI"))
		})

		It("should include cache statistics when present", func() {
			s := report.Summary{
				Model:        "cache",
				Instructions: 3,
				Cache:        &cache.Statistics{Reads: 3, Hits: 3, Misses: 1},
			}

			Expect(report.WriteSummary(buf, s)).To(Succeed())

			Expect(buf.String()).To(ContainSubstring("75.0%"))
		})
	})
})
