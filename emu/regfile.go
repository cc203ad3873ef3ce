// Package emu provides functional uCPU emulation.
package emu

import "github.com/sarchlab/ucsim/insts"

// RegFile represents the uCPU architectural register file: the accumulator,
// the two index registers, the program counter, and the condition flags.
type RegFile struct {
	// Acc is the 8-bit accumulator.
	Acc uint8

	// IX and IY are the 8-bit index registers.
	IX uint8
	IY uint8

	// PC is the 8-bit program counter. It wraps modulo 256.
	PC uint8

	// Flags holds the condition flags.
	Flags Flags
}

// Flags represents the condition flags.
type Flags struct {
	// C is the carry flag. ADD sets it on carry-out, SUB on borrow.
	C bool
	// Z is the zero flag, set when an ALU result is zero.
	Z bool
}

// Index reads the selected index register.
func (r *RegFile) Index(sel insts.IndexSel) uint8 {
	if sel == insts.IndexY {
		return r.IY
	}
	return r.IX
}

// SetIndex writes the selected index register.
func (r *RegFile) SetIndex(sel insts.IndexSel, value uint8) {
	if sel == insts.IndexY {
		r.IY = value
		return
	}
	r.IX = value
}

// Reset forces the register file to its power-on state.
func (r *RegFile) Reset() {
	r.Acc = 0
	r.IX = 0
	r.IY = 0
	r.PC = 0
	r.Flags = Flags{}
}
