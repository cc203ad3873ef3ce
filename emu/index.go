// Package emu provides functional uCPU emulation.
package emu

import "github.com/sarchlab/ucsim/insts"

// IndexUpdate describes a pending write to an index register. Increment and
// decrement wrap modulo 256 with no overflow signaling.
type IndexUpdate struct {
	// Valid indicates a write should happen.
	Valid bool
	// Sel names the target register.
	Sel insts.IndexSel
	// Value is the value to write.
	Value uint8
}

// Apply commits the update to the register file.
func (u IndexUpdate) Apply(regs *RegFile) {
	if u.Valid {
		regs.SetIndex(u.Sel, u.Value)
	}
}

// IndexEngine owns the IX/IY update semantics: effective-address formation
// for the indexed modes, autoincrement/autodecrement, and direct stores to
// an index register.
type IndexEngine struct{}

// NewIndexEngine creates a new index register engine.
func NewIndexEngine() *IndexEngine {
	return &IndexEngine{}
}

// Resolve computes the effective address for an instruction's operand and
// any autoincrement/decrement side effect, reading the index registers from
// regs. Post-increment modes form the address from the current index value;
// pre-decrement modes compute the new value first and use it as the address.
func (e *IndexEngine) Resolve(inst *insts.Instruction, regs *RegFile) (uint8, IndexUpdate) {
	switch inst.Mode {
	case insts.ModeDirect:
		return inst.Operand, IndexUpdate{}
	case insts.ModeIndirect:
		return regs.Index(inst.Index), IndexUpdate{}
	case insts.ModePostInc:
		idx := regs.Index(inst.Index)
		return idx, IndexUpdate{Valid: true, Sel: inst.Index, Value: idx + 1}
	case insts.ModePreDec:
		idx := regs.Index(inst.Index) - 1
		return idx, IndexUpdate{Valid: true, Sel: inst.Index, Value: idx}
	default:
		// Immediate operands and direct index-register access form no
		// memory address.
		return 0, IndexUpdate{}
	}
}

// StoreUpdate returns the register write for a store that targets an index
// register directly (STA %IX / STA %IY). The value must be the accumulator
// as it will exist after the current cycle's commit, which the pipeline
// supplies through its bypass network.
func (e *IndexEngine) StoreUpdate(inst *insts.Instruction, acc uint8) IndexUpdate {
	if !inst.Control.Store || inst.Mode != insts.ModeIndexReg {
		return IndexUpdate{}
	}
	return IndexUpdate{Valid: true, Sel: inst.Index, Value: acc}
}
