// Package emu provides functional uCPU emulation.
package emu

import (
	"github.com/sarchlab/ucsim/insts"
)

// Emulator executes uCPU instructions functionally, one instruction per
// step, with no pipeline timing. It serves as the reference model for the
// cycle-accurate core.
type Emulator struct {
	regFile *RegFile
	rom     *ROM
	ram     *RAM
	decoder *insts.Decoder

	// Execution units
	alu    *ALU
	engine *IndexEngine

	stepCount uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithRegFile shares an existing register file with the emulator.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// NewEmulator creates a new uCPU emulator over the given memories.
func NewEmulator(rom *ROM, ram *RAM, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		rom:     rom,
		ram:     ram,
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
		engine:  NewIndexEngine(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Regs returns the emulator's register file.
func (e *Emulator) Regs() *RegFile {
	return e.regFile
}

// StepCount returns the number of instructions executed since reset.
func (e *Emulator) StepCount() uint64 {
	return e.stepCount
}

// Reset forces the architectural state back to power-on values. The data
// memory is left untouched; it is a collaborator, not core state.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.stepCount = 0
}

// Step fetches, decodes, and executes one instruction in program order.
// It returns the instruction that was executed.
func (e *Emulator) Step() *insts.Instruction {
	regs := e.regFile
	inst := e.decoder.Decode(e.rom.Fetch(regs.PC))
	cw := inst.Control

	ea, autoUpdate := e.engine.Resolve(inst, regs)
	value := e.operandValue(inst, ea)

	nextPC := regs.PC + 1

	switch {
	case cw.RegJump:
		nextPC = value
	case inst.Op == insts.OpJMP:
		nextPC = inst.Operand
	case inst.Op == insts.OpBNC && !regs.Flags.C:
		nextPC = inst.Operand
	case inst.Op == insts.OpBNZ && !regs.Flags.Z:
		nextPC = inst.Operand
	case cw.Load:
		regs.Acc = value
	case cw.Store:
		if inst.Mode == insts.ModeIndexReg {
			regs.SetIndex(inst.Index, regs.Acc)
		} else {
			e.ram.Write(ea, regs.Acc)
		}
	case cw.WriteZ:
		// ALU operation.
		result := e.alu.Compute(cw.ALUOp, regs.Acc, value)
		if cw.WriteAcc {
			regs.Acc = result.Value
		}
		if cw.WriteC {
			regs.Flags.C = result.Carry
		}
		regs.Flags.Z = result.Zero
	}

	autoUpdate.Apply(regs)
	regs.PC = nextPC
	e.stepCount++

	return inst
}

// Run executes up to the given number of instructions.
func (e *Emulator) Run(steps uint64) {
	for i := uint64(0); i < steps; i++ {
		e.Step()
	}
}

// operandValue reads the second operand through the addressing mode.
func (e *Emulator) operandValue(inst *insts.Instruction, ea uint8) uint8 {
	switch inst.Mode {
	case insts.ModeImmediate:
		return inst.Operand
	case insts.ModeIndexReg:
		return e.regFile.Index(inst.Index)
	default:
		return e.ram.Read(ea)
	}
}
