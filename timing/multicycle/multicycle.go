// Package multicycle provides a micro-sequenced LC-2K model.
//
// A control state machine drives a single-bus datapath. Every state visit
// is one cycle, and memory accesses may take extra cycles.
package multicycle

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
)

// Result summarizes a completed run.
type Result struct {
	// Cycles is the number of state visits, the halt state included.
	Cycles uint64

	// Instructions is the number of instructions decoded, HALT included.
	Instructions uint64
}

// CPI returns the cycles per instruction.
func (r Result) CPI() float64 {
	if r.Instructions == 0 {
		return 0
	}
	return float64(r.Cycles) / float64(r.Instructions)
}

// Option is a functional option for configuring the Machine.
type Option func(*Machine)

// WithMaxCycles bounds the run. A value of 0 means no limit.
func WithMaxCycles(max uint64) Option {
	return func(m *Machine) {
		m.maxCycles = max
	}
}

// WithTraceWriter prints the machine state on entry to every state.
func WithTraceWriter(w io.Writer) Option {
	return func(m *Machine) {
		m.trace = w
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// Machine is the micro-sequenced processor.
type Machine struct {
	memory  *emu.Memory
	latency *LatencyMemory
	regFile emu.RegFile

	// Internal registers.
	memoryAddress int32
	memoryData    int32
	instrReg      int32
	aluOperand    int32
	aluResult     int32

	// bus is the value driven on the shared bus this cycle.
	bus int32

	state        State
	cycles       uint64
	instructions uint64
	halted       bool

	maxCycles uint64
	trace     io.Writer
	logger    *slog.Logger
}

// NewMachine creates a machine over memory, starting in StateFetch.
func NewMachine(memory *emu.Memory, opts ...Option) *Machine {
	m := &Machine{
		memory:  memory,
		latency: NewLatencyMemory(memory),
		state:   StateFetch,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegFile returns the architectural registers and PC.
func (m *Machine) RegFile() emu.RegFile {
	return m.regFile
}

// Memory returns the machine's memory.
func (m *Machine) Memory() *emu.Memory {
	return m.memory
}

// State returns the current control state.
func (m *Machine) State() State {
	return m.state
}

// Halted returns true once the halt state has been visited.
func (m *Machine) Halted() bool {
	return m.halted
}

// Step visits the current state and moves to the next one.
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}

	if m.maxCycles > 0 && m.cycles >= m.maxCycles {
		return fmt.Errorf("%d cycles: %w", m.cycles, emu.ErrInstructionLimit)
	}

	if m.trace != nil {
		m.printState()
	}
	m.cycles++

	if m.state == StateHalt {
		m.halted = true
		m.logger.Debug("machine halted",
			"cycles", m.cycles, "instructions", m.instructions)
		return nil
	}

	next, err := transitions[m.state](m)
	if err != nil {
		return fmt.Errorf("state %s, pc %d: %w", m.state, m.regFile.PC, err)
	}
	m.state = next

	return nil
}

// Run steps until the halt state or a fault.
func (m *Machine) Run() (Result, error) {
	for !m.halted {
		if err := m.Step(); err != nil {
			return m.result(), err
		}
	}
	return m.result(), nil
}

func (m *Machine) result() Result {
	return Result{Cycles: m.cycles, Instructions: m.instructions}
}

func (m *Machine) printState() {
	w := m.trace
	fmt.Fprintf(w, "\n@@@\nstate %s (cycle %d)\n", m.state, m.cycles)
	fmt.Fprintf(w, "\tpc %d\n", m.regFile.PC)
	fmt.Fprintf(w, "\tmemory:\n")
	for i := 0; i < m.memory.NumMemory(); i++ {
		fmt.Fprintf(w, "\t\tmem[ %d ] %d\n", i, m.memory.Read(i))
	}
	fmt.Fprintf(w, "\tregisters:\n")
	for i, v := range m.regFile.R {
		fmt.Fprintf(w, "\t\treg[ %d ] %d\n", i, v)
	}
	fmt.Fprintf(w, "\tinternal registers:\n")
	fmt.Fprintf(w, "\t\tmemoryAddress %d\n", m.memoryAddress)
	fmt.Fprintf(w, "\t\tmemoryData %d\n", m.memoryData)
	fmt.Fprintf(w, "\t\tinstrReg %d\n", m.instrReg)
	fmt.Fprintf(w, "\t\taluOperand %d\n", m.aluOperand)
	fmt.Fprintf(w, "\t\taluResult %d\n", m.aluResult)
}

func (m *Machine) fetch() (State, error) {
	if !emu.InBounds(int(m.regFile.PC)) {
		return StateFetch, emu.ErrPCOutOfBounds
	}
	m.bus = m.regFile.PC
	m.memoryAddress = m.bus
	return StateCheck, nil
}

func (m *Machine) check() (State, error) {
	value, ready, err := m.latency.Read(int(m.memoryAddress))
	if err != nil {
		return StateCheck, err
	}
	if !ready {
		return StateCheck, nil
	}
	m.memoryData = value
	return StateInstruction, nil
}

func (m *Machine) instruction() (State, error) {
	m.bus = m.memoryData
	m.instrReg = m.bus
	return StateLoadRegA, nil
}

func (m *Machine) loadRegA() (State, error) {
	m.bus = m.regFile.ReadReg(insts.RegA(m.instrReg))
	m.aluOperand = m.bus
	m.regFile.PC++
	m.instructions++

	switch insts.OpOf(m.instrReg) {
	case insts.OpADD:
		return StateALUAdd, nil
	case insts.OpNAND:
		return StateALUNand, nil
	case insts.OpLW, insts.OpSW:
		return StateCalcOffset, nil
	case insts.OpBEQ:
		return StateALUBeq, nil
	case insts.OpJALR:
		return StateALUJalr, nil
	case insts.OpHALT:
		return StateHalt, nil
	case insts.OpNOOP:
		return StateFetch, nil
	default:
		return StateLoadRegA, fmt.Errorf("opcode %d: %w",
			insts.Opcode(m.instrReg), emu.ErrIllegalOpcode)
	}
}

func (m *Machine) aluAdd() (State, error) {
	m.bus = m.regFile.ReadReg(insts.RegB(m.instrReg))
	m.aluResult = emu.Add(m.aluOperand, m.bus)
	return StateLoadDest, nil
}

func (m *Machine) aluNand() (State, error) {
	m.bus = m.regFile.ReadReg(insts.RegB(m.instrReg))
	m.aluResult = emu.Nand(m.aluOperand, m.bus)
	return StateLoadDest, nil
}

func (m *Machine) loadDest() (State, error) {
	m.bus = m.aluResult
	m.regFile.WriteReg(insts.Dest(m.instrReg), m.bus)
	return StateFetch, nil
}

func (m *Machine) aluBeq() (State, error) {
	m.bus = m.regFile.ReadReg(insts.RegB(m.instrReg))
	m.aluResult = m.bus - m.aluOperand
	return StateALUBeq2, nil
}

func (m *Machine) aluBeq2() (State, error) {
	if m.aluResult != 0 {
		return StateFetch, nil
	}
	m.bus = m.regFile.PC
	m.aluOperand = m.bus
	return StateCalcOffset, nil
}

func (m *Machine) aluBeq3() (State, error) {
	m.bus = m.aluResult
	m.regFile.PC = m.bus
	return StateFetch, nil
}

func (m *Machine) calcOffset() (State, error) {
	m.bus = insts.Offset(m.instrReg)
	m.aluResult = m.aluOperand + m.bus

	switch insts.OpOf(m.instrReg) {
	case insts.OpLW:
		return StateALULw, nil
	case insts.OpSW:
		return StateALUSw, nil
	default:
		return StateALUBeq3, nil
	}
}

func (m *Machine) aluLw() (State, error) {
	m.bus = m.aluResult
	m.memoryAddress = m.bus
	return StateALULw2, nil
}

func (m *Machine) aluLw2() (State, error) {
	value, ready, err := m.latency.Read(int(m.memoryAddress))
	if err != nil {
		return StateALULw2, err
	}
	if !ready {
		return StateALULw2, nil
	}
	m.memoryData = value
	return StateALULw3, nil
}

func (m *Machine) aluLw3() (State, error) {
	m.bus = m.memoryData
	m.regFile.WriteReg(insts.RegB(m.instrReg), m.bus)
	return StateFetch, nil
}

func (m *Machine) aluSw() (State, error) {
	m.bus = m.aluResult
	m.memoryAddress = m.bus
	return StateALUSw2, nil
}

func (m *Machine) aluSw2() (State, error) {
	m.bus = m.regFile.ReadReg(insts.RegB(m.instrReg))
	m.memoryData = m.bus
	return StateALUSw3, nil
}

func (m *Machine) aluSw3() (State, error) {
	ready, err := m.latency.Write(int(m.memoryAddress), m.memoryData)
	if err != nil {
		return StateALUSw3, err
	}
	if !ready {
		return StateALUSw3, nil
	}
	return StateFetch, nil
}

func (m *Machine) aluJalr() (State, error) {
	m.bus = m.regFile.PC
	m.regFile.WriteReg(insts.RegB(m.instrReg), m.bus)
	return StateALUJalr2, nil
}

func (m *Machine) aluJalr2() (State, error) {
	m.bus = m.regFile.ReadReg(insts.RegA(m.instrReg))
	m.regFile.PC = m.bus
	return StateFetch, nil
}
