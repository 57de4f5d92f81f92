// Package emu provides functional LC-2K emulation.
package emu

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/lcsim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the instruction was HALT.
	Halted bool

	// Err is set if the instruction faulted.
	Err error
}

// Result summarizes a completed run.
type Result struct {
	// Instructions is the number of instructions executed, HALT included.
	Instructions uint64
}

// Emulator executes LC-2K instructions one at a time with no overlap. It is
// the reference behavior the timing models are checked against.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	port    DataPort
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	logger   *slog.Logger
	stepHook func(pc int32, inst *insts.Instruction)

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
	halted           bool
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithDataPort routes LW and SW through port instead of directly to memory.
// Instruction fetch always reads memory.
func WithDataPort(port DataPort) EmulatorOption {
	return func(e *Emulator) {
		e.port = port
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithStepHook registers a function called before each instruction executes.
func WithStepHook(hook func(pc int32, inst *insts.Instruction)) EmulatorOption {
	return func(e *Emulator) {
		e.stepHook = hook
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// NewEmulator creates an emulator over the given memory with all registers
// and the PC at zero.
func NewEmulator(memory *Memory, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  memory,
		port:    memory,
		decoder: insts.NewDecoder(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.port)
	e.branchUnit = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted returns true once HALT has executed.
func (e *Emulator) Halted() bool {
	return e.halted
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("%d instructions: %w", e.instructionCount, ErrInstructionLimit),
		}
	}

	pc := e.regFile.PC
	if !InBounds(int(pc)) {
		return StepResult{Err: fmt.Errorf("pc %d: %w", pc, ErrPCOutOfBounds)}
	}

	inst := e.decoder.Decode(e.memory.Read(int(pc)))
	if e.stepHook != nil {
		e.stepHook(pc, inst)
	}

	e.regFile.PC++
	result := e.execute(inst)
	if result.Err != nil {
		return StepResult{Err: fmt.Errorf("pc %d: %w", pc, result.Err)}
	}

	e.instructionCount++
	if result.Halted {
		e.halted = true
		e.logger.Debug("machine halted",
			"pc", pc, "instructions", e.instructionCount)
	}

	return result
}

// Run executes instructions until HALT or a fault.
func (e *Emulator) Run() (Result, error) {
	for {
		result := e.Step()
		if result.Err != nil {
			return Result{Instructions: e.instructionCount}, result.Err
		}
		if result.Halted {
			return Result{Instructions: e.instructionCount}, nil
		}
	}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpADD:
		e.alu.ADD(inst.RegA, inst.RegB, inst.Dest)
	case insts.OpNAND:
		e.alu.NAND(inst.RegA, inst.RegB, inst.Dest)
	case insts.OpLW:
		if err := e.lsu.LW(inst.RegA, inst.RegB, inst.Offset); err != nil {
			return StepResult{Err: err}
		}
	case insts.OpSW:
		if err := e.lsu.SW(inst.RegA, inst.RegB, inst.Offset); err != nil {
			return StepResult{Err: err}
		}
	case insts.OpBEQ:
		e.branchUnit.BEQ(inst.RegA, inst.RegB, inst.Offset)
	case insts.OpJALR:
		e.branchUnit.JALR(inst.RegA, inst.RegB)
	case insts.OpHALT:
		return StepResult{Halted: true}
	case insts.OpNOOP:
	default:
		return StepResult{
			Err: fmt.Errorf("opcode %d: %w", insts.Opcode(inst.Word), ErrIllegalOpcode),
		}
	}

	return StepResult{}
}
