package insts

// AddrMode represents a resolved addressing mode for the operand field.
type AddrMode uint8

// Addressing modes. Register-mode operands below 0xF8 address data memory
// directly; 0xF8-0xFF select the index registers or an indexed mode.
const (
	// ModeImmediate consumes the operand field as a literal.
	ModeImmediate AddrMode = iota
	// ModeDirect addresses data memory at the operand field.
	ModeDirect
	// ModeIndexReg names an index register itself (0xF8/0xF9).
	ModeIndexReg
	// ModeIndirect addresses data memory at the index register (0xFA/0xFB).
	ModeIndirect
	// ModePostInc addresses data memory at the index register, then
	// increments it (0xFC/0xFD).
	ModePostInc
	// ModePreDec decrements the index register, then addresses data memory
	// at the new value (0xFE/0xFF).
	ModePreDec
)

// modeNames is indexed by AddrMode.
var modeNames = [...]string{
	"immediate", "direct", "index", "indirect", "postinc", "predec",
}

// String returns a short name for the mode.
func (m AddrMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// IsIndexed reports whether the mode engages the index-register engine.
func (m AddrMode) IsIndexed() bool {
	return m >= ModeIndexReg
}

// UsesMemory reports whether the operand value travels through data memory.
func (m AddrMode) UsesMemory() bool {
	return m == ModeDirect || m == ModeIndirect || m == ModePostInc || m == ModePreDec
}

// Operand returns the assembler operand spelling for an indexed mode.
func (m AddrMode) Operand(idx IndexSel) string {
	switch m {
	case ModeIndexReg:
		return "%" + idx.String()
	case ModeIndirect:
		return "@" + idx.String()
	case ModePostInc:
		return "@" + idx.String() + "+"
	case ModePreDec:
		return "@-" + idx.String()
	}
	return ""
}

// IndexSel selects one of the two index registers.
type IndexSel uint8

// Index register selectors, bit 0 of an indexed operand.
const (
	IndexX IndexSel = 0
	IndexY IndexSel = 1
)

// String returns the register name.
func (s IndexSel) String() string {
	if s == IndexY {
		return "IY"
	}
	return "IX"
}

// Indexed-operand encodings.
const (
	OperandIX      = 0xF8 // index register IX, direct
	OperandIY      = 0xF9 // index register IY, direct
	OperandIndIX   = 0xFA // memory at address held in IX
	OperandIndIY   = 0xFB // memory at address held in IY
	OperandPostIX  = 0xFC // memory at IX, then IX += 1
	OperandPostIY  = 0xFD // memory at IY, then IY += 1
	OperandPreIX   = 0xFE // IX -= 1, then memory at IX
	OperandPreIY   = 0xFF // IY -= 1, then memory at IY
	indexedMinimum = OperandIX
)

// ResolveMode maps an operand field to its addressing mode. Immediate
// operands never resolve; register-mode operands with the top five bits set
// select an index register or an indexed mode, with bit 2 enabling
// autoincrement/decrement, bit 1 separating post-increment from
// pre-decrement, and bit 0 choosing IX or IY. All 256 operand values map to
// a defined mode.
func ResolveMode(operand uint8, immediate bool) AddrMode {
	if immediate {
		return ModeImmediate
	}
	if operand < indexedMinimum {
		return ModeDirect
	}
	switch operand & 0b110 {
	case 0b000:
		return ModeIndexReg
	case 0b010:
		return ModeIndirect
	case 0b100:
		return ModePostInc
	default:
		return ModePreDec
	}
}
