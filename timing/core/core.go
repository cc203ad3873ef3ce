// Package core provides the cycle-accurate CPU core model.
// It wraps the pipeline implementation to provide a high-level interface.
package core

import (
	"github.com/sarchlab/ucsim/emu"
	"github.com/sarchlab/ucsim/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Bubbles is the number of bubble cycles injected for control hazards.
	Bubbles uint64
	// BranchesTaken is the number of taken branches and jumps.
	BranchesTaken uint64
	// RegJumps is the number of register-indirect jumps.
	RegJumps uint64
}

// CPI returns the cycles per retired instruction.
func (s Stats) CPI() float64 {
	return pipeline.Statistics(s).CPI()
}

// Core represents a cycle-accurate CPU core model.
// It wraps a 3-stage pipeline and provides a simple interface for simulation.
type Core struct {
	// Pipeline is the underlying 3-stage pipeline.
	Pipeline *pipeline.Pipeline

	// Shared resources
	regFile *emu.RegFile
	rom     *emu.ROM
	ram     *emu.RAM
}

// NewCore creates a new Core with the given register file and memories.
func NewCore(regFile *emu.RegFile, rom *emu.ROM, ram *emu.RAM) *Core {
	return &Core{
		Pipeline: pipeline.NewPipeline(regFile, rom, ram),
		regFile:  regFile,
		rom:      rom,
		ram:      ram,
	}
}

// Tick executes one pipeline cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// State returns a snapshot of the architectural state.
func (c *Core) State() pipeline.ArchState {
	return c.Pipeline.State()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return Stats(c.Pipeline.Stats())
}

// RunCycles executes the core for the specified number of cycles.
// The core never halts on its own; the caller decides when to stop.
func (c *Core) RunCycles(cycles uint64) {
	c.Pipeline.RunCycles(cycles)
}

// Reset returns the core to its power-on state. Memory contents are left
// untouched.
func (c *Core) Reset() {
	c.Pipeline.Reset()
}
