package pipeline

import (
	"github.com/sarchlab/ucsim/emu"
	"github.com/sarchlab/ucsim/insts"
)

// InstructionMemory is the external instruction ROM: a purely combinational
// 256-word by 12-bit lookup.
type InstructionMemory interface {
	Fetch(addr uint8) uint16
}

// DataMemory is the external data RAM: asynchronous read, synchronous
// write. The pipeline performs its write at commit time so that a write
// never affects a same-cycle read.
type DataMemory interface {
	Read(addr uint8) uint8
	Write(addr uint8, value uint8)
}

// DecodeStage derives control signals and the new addressing target from a
// fetched instruction word, and resolves branches.
type DecodeStage struct {
	decoder *insts.Decoder
	engine  *emu.IndexEngine
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage() *DecodeStage {
	return &DecodeStage{
		decoder: insts.NewDecoder(),
		engine:  emu.NewIndexEngine(),
	}
}

// DecodeResult holds the result of the decode stage.
type DecodeResult struct {
	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// ID is the operand field to latch.
	ID uint8

	// EA is the resolved executive address to latch.
	EA uint8

	// AutoUpdate is the index autoincrement/decrement side effect.
	AutoUpdate emu.IndexUpdate

	// StoreUpdate is the direct store to an index register, fed from the
	// bypassed accumulator.
	StoreUpdate emu.IndexUpdate

	// BranchTaken is true when a branch or immediate-jump condition holds;
	// Target is then the next program counter value.
	BranchTaken bool
	Target      uint8

	// RegJump is true for a register-indirect jump; JumpTarget is the
	// operand value read through the addressing mode this cycle.
	RegJump    bool
	JumpTarget uint8
}

// Decode decodes the instruction word held in the fetch latch. Branch
// conditions are evaluated against the bypassed flags; the store-to-index
// path uses the bypassed accumulator.
func (s *DecodeStage) Decode(
	latch *FetchLatch,
	regs *emu.RegFile,
	ram DataMemory,
	flags emu.Flags,
	acc uint8,
) DecodeResult {
	inst := s.decoder.Decode(latch.IR)

	ea, autoUpdate := s.engine.Resolve(inst, regs)

	result := DecodeResult{
		Inst:        inst,
		ID:          inst.Operand,
		EA:          ea,
		AutoUpdate:  autoUpdate,
		StoreUpdate: s.engine.StoreUpdate(inst, acc),
	}

	switch inst.Op {
	case insts.OpJMP:
		result.BranchTaken = true
		result.Target = inst.Operand
	case insts.OpBNC:
		result.BranchTaken = !flags.C
		result.Target = inst.Operand
	case insts.OpBNZ:
		result.BranchTaken = !flags.Z
		result.Target = inst.Operand
	case insts.OpJPR:
		result.RegJump = true
		result.JumpTarget = s.jumpTarget(inst, regs, ram, ea)
	}

	return result
}

// jumpTarget reads the register-indirect jump target through the resolved
// addressing mode.
func (s *DecodeStage) jumpTarget(
	inst *insts.Instruction,
	regs *emu.RegFile,
	ram DataMemory,
	ea uint8,
) uint8 {
	if inst.Mode == insts.ModeIndexReg {
		return regs.Index(inst.Index)
	}
	return ram.Read(ea)
}

// ExecuteStage performs the ALU operation or memory access for the
// instruction latched one cycle earlier.
type ExecuteStage struct {
	alu *emu.ALU
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{alu: emu.NewALU()}
}

// ExecuteResult holds the pending commits of the execute stage. Write
// enables already reflect bubble suppression, so a suppressed slot carries
// an all-false result.
type ExecuteResult struct {
	// AccValue is the accumulator value to commit when WriteAcc is set.
	AccValue uint8
	WriteAcc bool

	// Flags carries the computed conditions; WriteC/WriteZ gate them.
	Flags  emu.Flags
	WriteC bool
	WriteZ bool

	// StoreMem requests a data-memory write of StoreData at StoreAddr,
	// taking effect for the following cycle's reads.
	StoreMem  bool
	StoreAddr uint8
	StoreData uint8
}

// Execute computes the pending commits for the execute latch, reading all
// inputs from pre-tick state. With suppress set, every write enable comes
// back false while the conditions are still computed.
func (s *ExecuteStage) Execute(
	latch *ExecLatch,
	regs *emu.RegFile,
	ram DataMemory,
	suppress bool,
) ExecuteResult {
	if !latch.Valid || latch.Inst == nil {
		return ExecuteResult{}
	}

	inst := latch.Inst
	cw := inst.Control
	value := s.operandValue(latch, regs, ram)

	alu := s.alu.Compute(cw.ALUOp, regs.Acc, value)

	result := ExecuteResult{
		Flags:     emu.Flags{C: alu.Carry, Z: alu.Zero},
		AccValue:  alu.Value,
		StoreAddr: latch.EA,
		StoreData: regs.Acc,
	}
	if cw.Load {
		result.AccValue = value
	}

	if !suppress {
		result.WriteAcc = cw.WriteAcc
		result.WriteC = cw.WriteC
		result.WriteZ = cw.WriteZ
		result.StoreMem = cw.Store && inst.Mode != insts.ModeIndexReg
	}

	return result
}

// operandValue selects the second operand: the latched immediate, an index
// register, or the data memory at the latched executive address.
func (s *ExecuteStage) operandValue(latch *ExecLatch, regs *emu.RegFile, ram DataMemory) uint8 {
	switch latch.Inst.Mode {
	case insts.ModeImmediate:
		return latch.ID
	case insts.ModeIndexReg:
		return regs.Index(latch.Inst.Index)
	default:
		return ram.Read(latch.EA)
	}
}
