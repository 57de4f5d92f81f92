package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
	"github.com/sarchlab/lcsim/loader"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired, HALT included.
	Instructions uint64
	// Stalls is the number of load-use stall cycles.
	Stalls uint64
	// Flushes is the number of fetched instructions discarded by taken
	// branches.
	Flushes uint64
	// BranchesTaken is the number of BEQs resolved taken.
	BranchesTaken uint64
	// DataHazards is the number of RAW hazards resolved by forwarding.
	DataHazards uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithDataPort routes LW and SW through port instead of the data memory,
// e.g. a cache layered over it.
func WithDataPort(port emu.DataPort) PipelineOption {
	return func(p *Pipeline) {
		p.port = port
	}
}

// WithTracer registers a tracer that sees every snapshot before its cycle
// runs.
func WithTracer(tracer Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// WithMaxCycles bounds the run. A value of 0 means no limit.
func WithMaxCycles(max uint64) PipelineOption {
	return func(p *Pipeline) {
		p.maxCycles = max
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline implements the 5-stage pipelined LC-2K model.
// Stages: Fetch (IF) -> Decode (ID) -> Execute (EX) -> Memory (MEM) -> Writeback (WB)
//
// Hazard handling:
//   - Forwarding from EX/MEM, MEM/WB and WB/END, nearest first
//   - One stall cycle when an instruction uses the result of the LW ahead of it
//   - BEQ is predicted not taken; a taken BEQ squashes IF/ID and ID/EX
type Pipeline struct {
	state State

	imem *emu.Memory
	dmem *emu.Memory
	port emu.DataPort

	datapath *Datapath

	tracer    Tracer
	logger    *slog.Logger
	maxCycles uint64

	stats  Statistics
	halted bool
}

// NewPipeline creates a pipeline loaded with prog.
func NewPipeline(prog *loader.Program, opts ...PipelineOption) *Pipeline {
	return NewPipelineFromMemory(prog.NewMemory(), opts...)
}

// NewPipelineFromMemory creates a pipeline whose instruction memory is a
// copy of mem and whose data memory is mem itself.
func NewPipelineFromMemory(mem *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		state:  NewState(),
		imem:   mem.Clone(),
		dmem:   mem,
		port:   mem,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.datapath = NewDatapath(Ports{Instructions: p.imem, Data: p.port})

	return p
}

// State returns a copy of the current snapshot.
func (p *Pipeline) State() State {
	return p.state
}

// RegFile returns the architectural registers and PC.
func (p *Pipeline) RegFile() emu.RegFile {
	return emu.RegFile{R: p.state.Reg, PC: p.state.PC}
}

// Memory returns the data memory. When a write-back data port is in use,
// call its Flush first.
func (p *Pipeline) Memory() *emu.Memory {
	return p.dmem
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Halted returns true once HALT has reached MEM/WB.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Run executes the pipeline until it halts or faults.
func (p *Pipeline) Run() (Statistics, error) {
	for !p.halted {
		if err := p.Tick(); err != nil {
			return p.stats, err
		}
	}
	return p.stats, nil
}

// RunCycles executes the pipeline for at most the specified number of
// cycles. It returns true if the pipeline is still running.
func (p *Pipeline) RunCycles(cycles uint64) (bool, error) {
	for i := uint64(0); i < cycles && !p.halted; i++ {
		if err := p.Tick(); err != nil {
			return false, err
		}
	}
	return !p.halted, nil
}

// Tick executes one pipeline cycle.
//
// The snapshot is traced first. If HALT is in MEM/WB the machine halts
// without running another cycle, so the reported cycle count is that of the
// halting snapshot.
func (p *Pipeline) Tick() error {
	if p.halted {
		return nil
	}

	if p.tracer != nil {
		p.tracer.TraceState(&p.state, p.dmem)
	}

	if p.state.MEMWB.Op() == insts.OpHALT {
		p.halted = true
		p.stats.Instructions++
		p.logger.Debug("machine halted",
			"cycles", p.state.Cycles, "instructions", p.stats.Instructions)
		return nil
	}

	if p.maxCycles > 0 && p.state.Cycles >= p.maxCycles {
		return fmt.Errorf("%d cycles: %w", p.state.Cycles, emu.ErrInstructionLimit)
	}

	next, effects, err := p.datapath.Next(p.state)
	if err != nil {
		return fmt.Errorf("cycle %d: %w", p.state.Cycles, err)
	}

	if effects.Store != nil {
		if err := p.port.Store(effects.Store.Addr, effects.Store.Value); err != nil {
			return fmt.Errorf("cycle %d: %w", p.state.Cycles, err)
		}
	}

	p.account(effects)
	p.state = next
	p.stats.Cycles = next.Cycles

	return nil
}

func (p *Pipeline) account(effects Effects) {
	if effects.Stalled {
		p.stats.Stalls++
		p.logger.Debug("stall", "cycle", p.state.Cycles,
			"instr", insts.NewDecoder().Decode(p.state.IFID.Instr).String())
	}

	if effects.Squashed {
		p.stats.BranchesTaken++
		p.stats.Flushes += uint64(effects.Flushed)
		p.logger.Debug("squash", "cycle", p.state.Cycles,
			"target", p.state.IDEX.PCPlus1+p.state.IDEX.Offset)
	}

	if effects.Forwarded {
		p.stats.DataHazards++
	}

	if effects.Retired {
		p.stats.Instructions++
	}
}
