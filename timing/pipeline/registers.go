// Package pipeline provides the 5-stage LC-2K pipeline model.
//
// Each cycle computes a complete new State from the previous one. Every
// stage reads only the previous snapshot, so the order in which the stages
// are written does not matter.
package pipeline

import "github.com/sarchlab/lcsim/insts"

// IFID holds state between Fetch and Decode stages.
type IFID struct {
	// Valid is false for bubbles and squashed slots.
	Valid bool

	// Instr is the raw instruction word.
	Instr int32

	// PCPlus1 is the address after the fetched instruction.
	PCPlus1 int32

	// Fault is raised if this instruction reaches the MEM stage.
	Fault error
}

// Clear resets the IF/ID register to a NOOP bubble.
func (r *IFID) Clear() {
	*r = IFID{Instr: insts.NoopWord}
}

// Op returns the opcode of the held instruction.
func (r *IFID) Op() insts.Op {
	return insts.OpOf(r.Instr)
}

// IDEX holds state between Decode and Execute stages.
type IDEX struct {
	Valid   bool
	Instr   int32
	PCPlus1 int32

	// Register values read from the register file. Forwarding may replace
	// them in EX.
	ReadRegA int32
	ReadRegB int32

	// Offset is the sign-extended immediate. It is zero for R-type.
	Offset int32

	Fault error
}

// Clear resets the ID/EX register to a NOOP bubble.
func (r *IDEX) Clear() {
	*r = IDEX{Instr: insts.NoopWord}
}

// Op returns the opcode of the held instruction.
func (r *IDEX) Op() insts.Op {
	return insts.OpOf(r.Instr)
}

// EXMEM holds state between Execute and Memory stages.
type EXMEM struct {
	Valid bool
	Instr int32

	// BranchTarget is pcPlus1+offset for a taken BEQ.
	BranchTarget int32

	// BranchTaken tells IF to redirect to BranchTarget.
	BranchTaken bool

	// ALUResult is the ALU output, or the effective address for LW/SW.
	ALUResult int32

	// ReadRegB is the forwarded regB value, the store data for SW.
	ReadRegB int32

	Fault error
}

// Clear resets the EX/MEM register to a NOOP bubble.
func (r *EXMEM) Clear() {
	*r = EXMEM{Instr: insts.NoopWord}
}

// Op returns the opcode of the held instruction.
func (r *EXMEM) Op() insts.Op {
	return insts.OpOf(r.Instr)
}

// MEMWB holds state between Memory and Writeback stages.
type MEMWB struct {
	Valid bool
	Instr int32

	// WriteData is the loaded word for LW and the ALU result otherwise.
	WriteData int32
}

// Clear resets the MEM/WB register to a NOOP bubble.
func (r *MEMWB) Clear() {
	*r = MEMWB{Instr: insts.NoopWord}
}

// Op returns the opcode of the held instruction.
func (r *MEMWB) Op() insts.Op {
	return insts.OpOf(r.Instr)
}

// WBEND holds the instruction that wrote back in the previous cycle. It
// exists only as a forwarding source.
type WBEND struct {
	Valid     bool
	Instr     int32
	WriteData int32
}

// Clear resets the WB/END register to a NOOP bubble.
func (r *WBEND) Clear() {
	*r = WBEND{Instr: insts.NoopWord}
}

// Op returns the opcode of the held instruction.
func (r *WBEND) Op() insts.Op {
	return insts.OpOf(r.Instr)
}

// State is a complete pipeline snapshot. Memory is not part of it; loads go
// through a port and stores come back as an Effects entry.
type State struct {
	PC  int32
	Reg [insts.NumRegs]int32

	IFID  IFID
	IDEX  IDEX
	EXMEM EXMEM
	MEMWB MEMWB
	WBEND WBEND

	// Cycles is the number of cycles run so far.
	Cycles uint64
}

// NewState returns the reset state: PC and registers zero, every latch a
// NOOP bubble.
func NewState() State {
	s := State{}
	s.IFID.Clear()
	s.IDEX.Clear()
	s.EXMEM.Clear()
	s.MEMWB.Clear()
	s.WBEND.Clear()
	return s
}
