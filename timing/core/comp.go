package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/ucsim/timing/pipeline"
)

// Comp drives a Core from an Akita event engine. Each engine tick advances
// the pipeline by one cycle; the component keeps rescheduling itself until
// the configured cycle limit is reached.
type Comp struct {
	*sim.TickingComponent

	core      *Core
	maxCycles uint64
	observer  func(pipeline.ArchState)
}

// NewComp creates a ticking component that clocks the given core at the
// given frequency. maxCycles of 0 means no limit; the simulation then runs
// until the engine is paused externally.
func NewComp(name string, engine sim.Engine, freq sim.Freq, core *Core, maxCycles uint64) *Comp {
	c := &Comp{
		core:      core,
		maxCycles: maxCycles,
	}
	c.TickingComponent = sim.NewTickingComponent(name, engine, freq, c)
	c.TickLater()
	return c
}

// SetObserver registers a callback invoked with the architectural state
// after every cycle.
func (c *Comp) SetObserver(fn func(pipeline.ArchState)) {
	c.observer = fn
}

// Tick advances the core by one cycle. It returns false once the cycle
// limit is reached, letting the engine drain.
func (c *Comp) Tick() bool {
	if c.maxCycles > 0 && c.core.Stats().Cycles >= c.maxCycles {
		return false
	}
	c.core.Tick()
	if c.observer != nil {
		c.observer(c.core.State())
	}
	return true
}
