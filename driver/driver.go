// Package driver runs a loaded program on the processor model a SimConfig
// selects and collects the final state and statistics.
package driver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/lcsim/config"
	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/insts"
	"github.com/sarchlab/lcsim/loader"
	"github.com/sarchlab/lcsim/report"
	"github.com/sarchlab/lcsim/timing/cache"
	"github.com/sarchlab/lcsim/timing/core"
	"github.com/sarchlab/lcsim/timing/multicycle"
	"github.com/sarchlab/lcsim/timing/pipeline"
)

// Outcome is the result of one run.
type Outcome struct {
	Summary report.Summary

	// Regs and Memory hold the final architectural state. Memory is the
	// data memory with every dirty cache block written back.
	Regs   emu.RegFile
	Memory *emu.Memory
}

// Option configures a Driver.
type Option func(*Driver)

// WithTraceWriter prints per-cycle state (and cache transfers, when a cache
// is used) to w.
func WithTraceWriter(w io.Writer) Option {
	return func(d *Driver) {
		d.trace = w
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithEngine sets the Akita engine that ticks the pipeline core. Without
// one, every pipeline run gets a fresh serial engine.
func WithEngine(engine sim.Engine) Option {
	return func(d *Driver) {
		d.engine = engine
	}
}

// Driver runs programs under a fixed configuration.
type Driver struct {
	cfg    *config.SimConfig
	trace  io.Writer
	logger *slog.Logger
	engine sim.Engine
}

// New validates cfg and creates a Driver.
func New(cfg *config.SimConfig, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:    cfg.Clone(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Config returns the configuration the driver runs with.
func (d *Driver) Config() *config.SimConfig {
	return d.cfg.Clone()
}

// Run executes prog to HALT. On a fault the partial outcome is returned
// along with the error.
func (d *Driver) Run(prog *loader.Program) (Outcome, error) {
	mem := prog.NewMemory()
	out := Outcome{
		Summary: report.Summary{Model: string(d.cfg.Mode)},
		Memory:  mem,
	}

	var c *cache.Cache
	if d.cfg.UsesCache() {
		var err error
		c, err = d.newCache(mem)
		if err != nil {
			return out, err
		}
	}

	var err error
	switch d.cfg.Mode {
	case config.ModeSingle, config.ModeCache:
		err = d.runSingle(mem, c, &out)
	case config.ModeMulticycle:
		err = d.runMulticycle(mem, &out)
	case config.ModePipeline:
		err = d.runPipeline(mem, c, &out)
	default:
		err = fmt.Errorf("unknown mode %q: %w", d.cfg.Mode, config.ErrInvalidConfig)
	}

	if c != nil {
		c.Flush()
		stats := c.Stats()
		out.Summary.Cache = &stats
	}

	d.logger.Debug("run finished",
		"mode", d.cfg.Mode,
		"cycles", out.Summary.Cycles,
		"instructions", out.Summary.Instructions,
		"error", err)

	return out, err
}

func (d *Driver) newCache(mem *emu.Memory) (*cache.Cache, error) {
	opts := []cache.Option{cache.WithLogger(d.logger)}
	if d.trace != nil {
		opts = append(opts, cache.WithActionObserver(cache.NewActionPrinter(d.trace)))
	}

	return cache.New(d.cfg.Cache.Geometry(), cache.NewMemoryBacking(mem), opts...)
}

func (d *Driver) runSingle(mem *emu.Memory, c *cache.Cache, out *Outcome) error {
	opts := []emu.EmulatorOption{
		emu.WithMaxInstructions(d.cfg.MaxCycles),
		emu.WithLogger(d.logger),
	}
	if c != nil {
		opts = append(opts, emu.WithDataPort(c))
	}
	if d.trace != nil {
		w := d.trace
		opts = append(opts, emu.WithStepHook(func(pc int32, inst *insts.Instruction) {
			fmt.Fprintf(w, "pc %d: %s\n", pc, inst)
		}))
	}

	e := emu.NewEmulator(mem, opts...)
	result, err := e.Run()

	out.Summary.Instructions = result.Instructions
	out.Regs = *e.RegFile()

	return err
}

func (d *Driver) runMulticycle(mem *emu.Memory, out *Outcome) error {
	opts := []multicycle.Option{
		multicycle.WithMaxCycles(d.cfg.MaxCycles),
		multicycle.WithLogger(d.logger),
	}
	if d.trace != nil {
		opts = append(opts, multicycle.WithTraceWriter(d.trace))
	}

	m := multicycle.NewMachine(mem, opts...)
	result, err := m.Run()

	out.Summary.Cycles = result.Cycles
	out.Summary.Instructions = result.Instructions
	out.Regs = m.RegFile()

	return err
}

func (d *Driver) runPipeline(mem *emu.Memory, c *cache.Cache, out *Outcome) error {
	opts := []pipeline.PipelineOption{
		pipeline.WithMaxCycles(d.cfg.MaxCycles),
		pipeline.WithLogger(d.logger),
	}
	if c != nil {
		opts = append(opts, pipeline.WithDataPort(c))
	}
	if d.trace != nil {
		opts = append(opts, pipeline.WithTracer(pipeline.NewTextTracer(d.trace)))
	}

	pipe := pipeline.NewPipelineFromMemory(mem, opts...)

	builder := core.NewBuilder()
	if d.engine != nil {
		builder = builder.WithEngine(d.engine)
	}
	stats, err := builder.Build("LC2K.Core", pipe).Run()

	out.Summary.Cycles = stats.Cycles
	out.Summary.Instructions = stats.Instructions
	out.Summary.Stalls = stats.Stalls
	out.Summary.Flushes = stats.Flushes
	out.Regs = pipe.RegFile()

	return err
}
