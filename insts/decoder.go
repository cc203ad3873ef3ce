// Package insts provides uCPU instruction definitions and decoding.
package insts

import "fmt"

// Op represents a uCPU operation.
type Op uint8

// uCPU operations. The numeric value is the 4-bit opcode/immediate pair as
// it appears in bits [11:8] of the instruction word.
const (
	OpANA Op = 0x0 // AND accumulator with register
	OpANI Op = 0x1 // AND accumulator with immediate
	OpXRA Op = 0x2 // XOR accumulator with register
	OpXRI Op = 0x3 // XOR accumulator with immediate
	OpADA Op = 0x4 // ADD register to accumulator
	OpADI Op = 0x5 // ADD immediate to accumulator
	OpSBA Op = 0x6 // SUB register from accumulator
	OpSBI Op = 0x7 // compare immediate (flags only, no store)
	OpBNC Op = 0x8 // branch if carry clear
	OpBNZ Op = 0x9 // branch if zero clear
	OpJPR Op = 0xA // jump to address in register
	OpJMP Op = 0xB // jump to immediate address
	OpLDA Op = 0xC // load accumulator from register
	OpLDI Op = 0xD // load accumulator from immediate
	OpSTA Op = 0xE // store accumulator to register
	OpSTX Op = 0xF // reserved/extension, architectural no-op
)

var opNames = [16]string{
	"ANA", "ANI", "XRA", "XRI", "ADA", "ADI", "SBA", "SBI",
	"BNC", "BNZ", "JPR", "JMP", "LDA", "LDI", "STA", "STX",
}

// String returns the assembler mnemonic for the operation.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// ALUOp selects an ALU function. The value is the low two opcode bits.
type ALUOp uint8

// ALU functions.
const (
	ALUAnd ALUOp = 0b00 // bitwise AND, carry forced to 0
	ALUXor ALUOp = 0b01 // bitwise XOR, carry forced to 0
	ALUAdd ALUOp = 0b10 // 8-bit add with carry-out
	ALUSub ALUOp = 0b11 // 8-bit subtract with borrow-as-carry-out
)

// ControlWord is the bundle of control signals derived at decode time and
// consumed one cycle later at execute time. A zero ControlWord is a no-op
// with respect to architectural state.
type ControlWord struct {
	// ALUOp selects the ALU function for ALU operations.
	ALUOp ALUOp

	// Immediate is true when the operand field is consumed as a literal
	// rather than resolved through the addressing modes.
	Immediate bool

	// RegJump is true for the register-indirect jump (JPR).
	RegJump bool

	// Load is true when the accumulator is loaded from the operand path
	// instead of the ALU result.
	Load bool

	// Store is true when the accumulator is stored through the operand path.
	Store bool

	// WriteAcc enables the accumulator write at execute time.
	WriteAcc bool

	// WriteZ enables the zero-flag write at execute time.
	WriteZ bool

	// WriteC enables the carry-flag write at execute time.
	WriteC bool
}

// Instruction represents a decoded uCPU instruction.
type Instruction struct {
	// Word is the raw 12-bit instruction word.
	Word uint16

	// Op is the operation (opcode plus immediate bit).
	Op Op

	// Operand is the 8-bit immediate/address/register field.
	Operand uint8

	// Mode is the resolved addressing mode for the operand.
	Mode AddrMode

	// Index selects between IX and IY for indexed modes.
	Index IndexSel

	// Control carries the decode-derived control signals.
	Control ControlWord
}

// IsBranch reports whether the instruction is a conditional branch.
func (i *Instruction) IsBranch() bool {
	return i.Op == OpBNC || i.Op == OpBNZ
}

// String formats the instruction the way the assembler writes it.
func (i *Instruction) String() string {
	switch i.Mode {
	case ModeImmediate:
		return fmt.Sprintf("%s %02X", i.Op, i.Operand)
	case ModeDirect:
		if i.IsBranch() || i.Op == OpJMP {
			return fmt.Sprintf("%s %02X", i.Op, i.Operand)
		}
		return fmt.Sprintf("%s %%%02X", i.Op, i.Operand)
	default:
		return fmt.Sprintf("%s %s", i.Op, i.Mode.Operand(i.Index))
	}
}

// Decoder decodes uCPU machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new uCPU instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 12-bit uCPU instruction word. Bits above bit 11 are
// ignored. Every word decodes to a defined instruction; the reserved
// encoding (opcode 111 with the immediate bit set) yields an all-disabled
// control word.
func (d *Decoder) Decode(word uint16) *Instruction {
	word &= 0xFFF

	op := Op(word >> 8)          // bits [11:8]: opcode and immediate bit
	operand := uint8(word)       // bits [7:0]
	immediate := word&0x100 != 0 // bit 8

	inst := &Instruction{
		Word:    word,
		Op:      op,
		Operand: operand,
		Mode:    ResolveMode(operand, immediate),
		Index:   IndexSel(operand & 0x01),
	}
	inst.Control = d.controlWord(op, immediate)

	return inst
}

// controlWord derives the control signals for an opcode/immediate pair.
func (d *Decoder) controlWord(op Op, immediate bool) ControlWord {
	cw := ControlWord{Immediate: immediate}

	opcode := uint8(op) >> 1 // 3-bit opcode

	switch opcode {
	case 0b000, 0b001, 0b010, 0b011:
		// ALU operations.
		cw.ALUOp = ALUOp(opcode & 0b11)
		cw.WriteZ = true
		cw.WriteC = opcode&0b10 != 0 // ADD/SUB only
		cw.WriteAcc = op != OpSBI    // compare writes flags but not Acc
	case 0b100:
		// Conditional branches resolve at decode time; nothing to execute.
	case 0b101:
		cw.RegJump = !immediate
	case 0b110:
		cw.Load = true
		cw.WriteAcc = true
	case 0b111:
		// STA stores; the immediate variant is reserved and stays a no-op.
		cw.Store = !immediate
	}

	return cw
}

// Encode builds the 12-bit instruction word for an operation and operand.
// It is the inverse of Decode and is used by the assembler and by tests.
func Encode(op Op, operand uint8) uint16 {
	return uint16(op)<<8 | uint16(operand)
}
