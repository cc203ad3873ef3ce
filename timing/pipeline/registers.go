// Package pipeline provides the 3-stage pipeline implementation of the
// uCPU core.
package pipeline

import "github.com/sarchlab/ucsim/insts"

// FetchLatch holds state between the fetch and decode stages. It carries
// the instruction register (IR) and the address it was fetched from.
type FetchLatch struct {
	// Valid indicates the latch carries a fetched instruction.
	Valid bool

	// PC is the address the instruction was fetched from.
	PC uint8

	// IR is the raw 12-bit instruction word.
	IR uint16
}

// ExecLatch holds state between the decode and execute stages: the decoded
// instruction with its control word, the latched operand field (ID), and
// the resolved effective address (EA). A latch with Valid false behaves as
// a no-op in the execute stage.
type ExecLatch struct {
	// Valid indicates the latch carries a live instruction. Suppressed
	// decode slots latch an invalid entry, which executes as a no-op.
	Valid bool

	// PC is the address of the instruction.
	PC uint8

	// Inst is the decoded instruction, control word included.
	Inst *insts.Instruction

	// ID is the latched immediate/address/register field.
	ID uint8

	// EA is the resolved address driving the data-memory access.
	EA uint8
}

// Clear resets the latch to empty state.
func (l *ExecLatch) Clear() {
	l.Valid = false
	l.PC = 0
	l.Inst = nil
	l.ID = 0
	l.EA = 0
}
