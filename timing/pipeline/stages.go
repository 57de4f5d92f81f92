package pipeline

import (
	"fmt"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
)

// Ports are the memories a cycle reads. Instruction fetch and data accesses
// use separate memories, so a store never changes what is fetched.
type Ports struct {
	// Instructions is read by IF.
	Instructions *emu.Memory

	// Data serves LW in the MEM stage. SW does not write it directly; the
	// store comes back in Effects.
	Data emu.DataPort
}

// StoreEffect is a data-memory write produced by the MEM stage.
type StoreEffect struct {
	Addr  int
	Value int32
}

// Effects describes what happened during one cycle.
type Effects struct {
	// Store is the SW performed in MEM this cycle, if any.
	Store *StoreEffect

	// Stalled is set when a load-use hazard inserted a bubble.
	Stalled bool

	// Squashed is set when a taken BEQ flushed IF/ID and ID/EX.
	Squashed bool

	// Flushed is the number of valid instructions the squash discarded.
	Flushed int

	// Forwarded is set when EX used a forwarded operand.
	Forwarded bool

	// Retired is set when a valid instruction left MEM/WB.
	Retired bool
}

// FetchStage handles instruction fetch from memory.
type FetchStage struct {
	memory *emu.Memory
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory}
}

// Fetch reads the next instruction and returns the new IF/ID contents and
// PC. A taken BEQ in EX/MEM redirects the fetch to its target. Fetching
// outside memory yields a NOOP that faults only if it reaches MEM.
func (s *FetchStage) Fetch(cur *State) (IFID, int32) {
	pc := cur.PC
	if cur.EXMEM.BranchTaken {
		pc = cur.EXMEM.BranchTarget
	}

	ifid := IFID{Valid: true, Instr: insts.NoopWord, PCPlus1: pc + 1}
	if emu.InBounds(int(pc)) {
		ifid.Instr = s.memory.Read(int(pc))
	} else {
		ifid.Fault = fmt.Errorf("fetch at pc %d: %w", pc, emu.ErrPCOutOfBounds)
	}

	return ifid, pc + 1
}

// DecodeStage handles instruction decode and register read.
type DecodeStage struct {
	hazardUnit *HazardUnit
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(hazardUnit *HazardUnit) *DecodeStage {
	return &DecodeStage{hazardUnit: hazardUnit}
}

// Decode promotes IF/ID to ID/EX. On a load-use hazard it returns a bubble
// and true; the caller then holds IF/ID and the PC.
func (s *DecodeStage) Decode(cur *State) (IDEX, bool) {
	var idex IDEX

	if s.hazardUnit.DetectLoadUse(&cur.IDEX, &cur.IFID) {
		idex.Clear()
		return idex, true
	}

	ifid := &cur.IFID
	idex = IDEX{
		Valid:   ifid.Valid,
		Instr:   ifid.Instr,
		PCPlus1: ifid.PCPlus1,
		Fault:   ifid.Fault,
	}

	op := ifid.Op()
	if op == insts.OpNOOP {
		return idex, false
	}

	idex.ReadRegA = cur.Reg[insts.RegA(ifid.Instr)]
	idex.ReadRegB = cur.Reg[insts.RegB(ifid.Instr)]
	if !op.IsRType() {
		idex.Offset = insts.Offset(ifid.Instr)
	}

	if !op.Valid() && idex.Fault == nil {
		idex.Fault = fmt.Errorf("opcode %d at pc %d: %w",
			insts.Opcode(ifid.Instr), ifid.PCPlus1-1, emu.ErrIllegalOpcode)
	}

	return idex, false
}

// ExecuteStage handles ALU operations, address calculation and branch
// resolution.
type ExecuteStage struct {
	hazardUnit *HazardUnit
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage(hazardUnit *HazardUnit) *ExecuteStage {
	return &ExecuteStage{hazardUnit: hazardUnit}
}

// Execute promotes ID/EX to EX/MEM using forwarded operands.
func (s *ExecuteStage) Execute(cur *State) (EXMEM, ForwardingResult) {
	idex := &cur.IDEX
	exmem := EXMEM{
		Valid: idex.Valid,
		Instr: idex.Instr,
		Fault: idex.Fault,
	}

	forwarding := s.hazardUnit.DetectForwarding(idex, &cur.EXMEM, &cur.MEMWB, &cur.WBEND)
	regA := s.hazardUnit.ForwardedValue(forwarding.ForwardRegA, idex.ReadRegA,
		&cur.EXMEM, &cur.MEMWB, &cur.WBEND)
	regB := s.hazardUnit.ForwardedValue(forwarding.ForwardRegB, idex.ReadRegB,
		&cur.EXMEM, &cur.MEMWB, &cur.WBEND)

	exmem.ReadRegB = regB

	switch idex.Op() {
	case insts.OpADD:
		exmem.ALUResult = emu.Add(regA, regB)
	case insts.OpNAND:
		exmem.ALUResult = emu.Nand(regA, regB)
	case insts.OpBEQ:
		if regA == regB {
			exmem.BranchTarget = idex.PCPlus1 + idex.Offset
			exmem.BranchTaken = true
		} else {
			exmem.BranchTarget = cur.PC + 1
		}
	case insts.OpLW, insts.OpSW, insts.OpJALR, insts.OpHALT:
		exmem.ALUResult = regA + idex.Offset
	}

	return exmem, forwarding
}

// MemoryStage handles memory load/store operations.
type MemoryStage struct {
	port emu.DataPort
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage(port emu.DataPort) *MemoryStage {
	return &MemoryStage{port: port}
}

// Access promotes EX/MEM to MEM/WB. A deferred fault carried by the
// instruction is raised here, since nothing can squash it any more.
func (s *MemoryStage) Access(exmem *EXMEM) (MEMWB, *StoreEffect, error) {
	if exmem.Fault != nil {
		return MEMWB{}, nil, exmem.Fault
	}

	memwb := MEMWB{
		Valid:     exmem.Valid,
		Instr:     exmem.Instr,
		WriteData: exmem.ALUResult,
	}

	addr := int(exmem.ALUResult)

	switch exmem.Op() {
	case insts.OpLW:
		value, err := s.port.Load(addr)
		if err != nil {
			return MEMWB{}, nil, err
		}
		memwb.WriteData = value
	case insts.OpSW:
		if !emu.InBounds(addr) {
			return MEMWB{}, nil, fmt.Errorf("store to %d: %w", addr, emu.ErrAddressOutOfBounds)
		}
		return memwb, &StoreEffect{Addr: addr, Value: exmem.ReadRegB}, nil
	}

	return memwb, nil, nil
}

// WritebackStage handles register file writeback.
type WritebackStage struct{}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage() *WritebackStage {
	return &WritebackStage{}
}

// Writeback commits MEM/WB into regs and returns the new WB/END contents.
func (s *WritebackStage) Writeback(memwb *MEMWB, regs *[insts.NumRegs]int32) WBEND {
	switch memwb.Op() {
	case insts.OpLW:
		regs[insts.RegB(memwb.Instr)] = memwb.WriteData
	case insts.OpADD, insts.OpNAND:
		regs[insts.Dest(memwb.Instr)] = memwb.WriteData
	}

	return WBEND{
		Valid:     memwb.Valid,
		Instr:     memwb.Instr,
		WriteData: memwb.WriteData,
	}
}

// Datapath wires the five stages together.
type Datapath struct {
	hazardUnit *HazardUnit

	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage
}

// NewDatapath creates the stages over the given ports.
func NewDatapath(ports Ports) *Datapath {
	hazardUnit := NewHazardUnit()
	return &Datapath{
		hazardUnit:     hazardUnit,
		fetchStage:     NewFetchStage(ports.Instructions),
		decodeStage:    NewDecodeStage(hazardUnit),
		executeStage:   NewExecuteStage(hazardUnit),
		memoryStage:    NewMemoryStage(ports.Data),
		writebackStage: NewWritebackStage(),
	}
}

// Next computes the snapshot after one cycle. cur is not modified. On error
// the returned state is cur unchanged.
func (d *Datapath) Next(cur State) (State, Effects, error) {
	var effects Effects

	next := cur
	next.Cycles++

	next.IFID, next.PC = d.fetchStage.Fetch(&cur)

	next.IDEX, effects.Stalled = d.decodeStage.Decode(&cur)
	if effects.Stalled {
		next.IFID = cur.IFID
		next.PC = cur.PC
	}

	var forwarding ForwardingResult
	next.EXMEM, forwarding = d.executeStage.Execute(&cur)
	effects.Forwarded = forwarding.Any() && readsRegisters(cur.IDEX.Op())
	if next.EXMEM.BranchTaken {
		if next.IDEX.Valid {
			effects.Flushed++
		}
		if next.IFID.Valid {
			effects.Flushed++
		}
		next.IDEX.Clear()
		next.IFID.Clear()
		effects.Squashed = true
	}

	memwb, store, err := d.memoryStage.Access(&cur.EXMEM)
	if err != nil {
		return cur, Effects{}, err
	}
	next.MEMWB = memwb
	effects.Store = store

	next.WBEND = d.writebackStage.Writeback(&cur.MEMWB, &next.Reg)
	effects.Retired = cur.MEMWB.Valid

	return next, effects, nil
}

// Next computes the snapshot after one cycle using a fresh datapath.
func Next(cur State, ports Ports) (State, Effects, error) {
	return NewDatapath(ports).Next(cur)
}

func readsRegisters(op insts.Op) bool {
	switch op {
	case insts.OpADD, insts.OpNAND, insts.OpLW, insts.OpSW, insts.OpBEQ, insts.OpJALR:
		return true
	default:
		return false
	}
}
