package pipeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
)

// Tracer observes the pipeline snapshot before each cycle.
type Tracer interface {
	TraceState(state *State, data *emu.Memory)
}

// TextTracer prints every snapshot as an "@@@" block listing the PC, data
// memory, registers and all five latches.
type TextTracer struct {
	w       *bufio.Writer
	decoder *insts.Decoder
}

// NewTextTracer creates a tracer writing to w.
func NewTextTracer(w io.Writer) *TextTracer {
	return &TextTracer{
		w:       bufio.NewWriter(w),
		decoder: insts.NewDecoder(),
	}
}

// TraceState implements Tracer.
func (t *TextTracer) TraceState(s *State, data *emu.Memory) {
	w := t.w

	fmt.Fprintf(w, "\n@@@\nstate before cycle %d starts\n", s.Cycles)
	fmt.Fprintf(w, "\tpc %d\n", s.PC)

	fmt.Fprintf(w, "\tdata memory:\n")
	for i := 0; i < data.NumMemory(); i++ {
		fmt.Fprintf(w, "\t\tdataMem[ %d ] %d\n", i, data.Read(i))
	}

	fmt.Fprintf(w, "\tregisters:\n")
	for i, v := range s.Reg {
		fmt.Fprintf(w, "\t\treg[ %d ] %d\n", i, v)
	}

	fmt.Fprintf(w, "\tIFID:\n")
	t.instruction(s.IFID.Instr)
	fmt.Fprintf(w, "\t\tpcPlus1 %d\n", s.IFID.PCPlus1)

	fmt.Fprintf(w, "\tIDEX:\n")
	t.instruction(s.IDEX.Instr)
	fmt.Fprintf(w, "\t\tpcPlus1 %d\n", s.IDEX.PCPlus1)
	fmt.Fprintf(w, "\t\treadRegA %d\n", s.IDEX.ReadRegA)
	fmt.Fprintf(w, "\t\treadRegB %d\n", s.IDEX.ReadRegB)
	fmt.Fprintf(w, "\t\toffset %d\n", s.IDEX.Offset)

	fmt.Fprintf(w, "\tEXMEM:\n")
	t.instruction(s.EXMEM.Instr)
	fmt.Fprintf(w, "\t\tbranchTarget %d\n", s.EXMEM.BranchTarget)
	fmt.Fprintf(w, "\t\taluResult %d\n", s.EXMEM.ALUResult)
	fmt.Fprintf(w, "\t\treadRegB %d\n", s.EXMEM.ReadRegB)

	fmt.Fprintf(w, "\tMEMWB:\n")
	t.instruction(s.MEMWB.Instr)
	fmt.Fprintf(w, "\t\twriteData %d\n", s.MEMWB.WriteData)

	fmt.Fprintf(w, "\tWBEND:\n")
	t.instruction(s.WBEND.Instr)
	fmt.Fprintf(w, "\t\twriteData %d\n", s.WBEND.WriteData)

	_ = w.Flush()
}

func (t *TextTracer) instruction(word int32) {
	fmt.Fprintf(t.w, "\t\tinstruction %s\n", t.decoder.Decode(word))
}
