// Package core drives the LC-2K pipeline from an Akita simulation engine.
// Each engine tick of the core advances the pipeline by one cycle.
package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/lcsim/timing/pipeline"
)

// Builder can create new cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
}

// NewBuilder returns a builder for a 1 GHz core.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// Build creates a core that ticks pipe. Without an engine, a serial engine
// is created.
func (b Builder) Build(name string, pipe *pipeline.Pipeline) *Core {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	c := &Core{pipeline: pipe}
	c.TickingComponent = sim.NewTickingComponent(name, engine, b.freq, c)

	return c
}

// Core represents a cycle-accurate LC-2K core as an Akita component.
type Core struct {
	*sim.TickingComponent

	pipeline *pipeline.Pipeline
	err      error
}

// Pipeline returns the pipeline the core drives.
func (c *Core) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Tick advances the pipeline one cycle. It stops requesting ticks once the
// machine halts or faults.
func (c *Core) Tick() bool {
	if c.pipeline.Halted() || c.err != nil {
		return false
	}

	if err := c.pipeline.Tick(); err != nil {
		c.err = err
		return false
	}

	return !c.pipeline.Halted()
}

// Stats returns the pipeline statistics so far.
func (c *Core) Stats() pipeline.Statistics {
	return c.pipeline.Stats()
}

// Err returns the fault that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// Run schedules the first tick and runs the engine until the core stops.
func (c *Core) Run() (pipeline.Statistics, error) {
	c.TickNow()

	if err := c.Engine.Run(); err != nil {
		return c.pipeline.Stats(), err
	}

	return c.pipeline.Stats(), c.err
}

// Now returns the engine's current simulated time.
func (c *Core) Now() sim.VTimeInSec {
	return c.Engine.CurrentTime()
}
