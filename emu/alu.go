// Package emu provides functional uCPU emulation.
package emu

import "github.com/sarchlab/ucsim/insts"

// ALUResult holds the outcome of one ALU operation: the result byte and the
// carry and zero conditions. The conditions are always computed; whether
// they commit to the flags is decided by the control word.
type ALUResult struct {
	// Value is the 8-bit result.
	Value uint8
	// Carry is the carry-out for ADD, the borrow for SUB, and 0 for the
	// logic operations.
	Carry bool
	// Zero is set when Value is 0.
	Zero bool
}

// ALU implements the uCPU arithmetic and logic operations on the
// accumulator and a second operand.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Compute performs the selected operation on acc and operand. 8-bit
// addition and subtraction wrap modulo 256; the carry condition is the only
// overflow signal.
func (a *ALU) Compute(op insts.ALUOp, acc, operand uint8) ALUResult {
	var result ALUResult

	switch op {
	case insts.ALUAnd:
		result.Value = acc & operand
	case insts.ALUXor:
		result.Value = acc ^ operand
	case insts.ALUAdd:
		sum := uint16(acc) + uint16(operand)
		result.Value = uint8(sum)
		result.Carry = sum > 0xFF
	case insts.ALUSub:
		result.Value = acc - operand
		result.Carry = acc < operand
	}

	result.Zero = result.Value == 0
	return result
}
