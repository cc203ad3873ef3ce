package pipeline

import "github.com/sarchlab/ucsim/emu"

// SkipState is the control-hazard bubble state machine. Bit 1 set means
// decode-stage commits are suppressed this cycle; bit 0 set means
// execute-stage commits are suppressed this cycle. The program counter is
// never suppressed.
type SkipState uint8

// Bubble states. A taken branch or immediate jump resolved at decode time
// costs one bubble (SkipStage2Next); a register-indirect jump costs two
// (SkipBothNext followed by SkipStage3Only).
const (
	// NoSkip commits both stages normally.
	NoSkip SkipState = 0b00
	// SkipStage3Only suppresses the execute-stage commit, one cycle after
	// SkipBothNext.
	SkipStage3Only SkipState = 0b01
	// SkipStage2Next suppresses the decode-stage commit for the single
	// wrong-path fetch behind a taken branch.
	SkipStage2Next SkipState = 0b10
	// SkipBothNext suppresses both stage commits in the cycle after a
	// register-indirect jump is decoded.
	SkipBothNext SkipState = 0b11
)

var skipNames = [4]string{"NoSkip", "SkipStage3Only", "SkipStage2Next", "SkipBothNext"}

// String returns the state name.
func (s SkipState) String() string {
	return skipNames[s&0b11]
}

// SuppressDecode reports whether decode-stage commits are suppressed this
// cycle.
func (s SkipState) SuppressDecode() bool {
	return s&0b10 != 0
}

// SuppressExecute reports whether execute-stage commits are suppressed this
// cycle.
func (s SkipState) SuppressExecute() bool {
	return s&0b01 != 0
}

// Next advances the state machine. regJump and branchTaken describe the
// instruction decoded this cycle and must be false when the decode slot is
// suppressed; a register-indirect jump takes priority over a
// simultaneously-true branch condition.
func (s SkipState) Next(regJump, branchTaken bool) SkipState {
	if s.SuppressDecode() {
		if s == SkipBothNext {
			return SkipStage3Only
		}
		return NoSkip
	}

	switch {
	case regJump:
		return SkipBothNext
	case branchTaken:
		return SkipStage2Next
	default:
		return NoSkip
	}
}

// BypassNetwork implements the combinational forwarding paths that let
// stage-3-bound values be observed by stage-2 logic within the same cycle.
type BypassNetwork struct{}

// NewBypassNetwork creates a new bypass network.
func NewBypassNetwork() *BypassNetwork {
	return &BypassNetwork{}
}

// Flags returns the condition flags as the decode stage must observe them:
// when the instruction in the execute stage commits a flag this cycle, the
// about-to-be-written value is muxed ahead of the registered one.
func (b *BypassNetwork) Flags(res ExecuteResult, flags emu.Flags) emu.Flags {
	if res.WriteC {
		flags.C = res.Flags.C
	}
	if res.WriteZ {
		flags.Z = res.Flags.Z
	}
	return flags
}

// Acc returns the accumulator as it will exist after this cycle's commit,
// so a store-to-index-register decoded this cycle captures the value the
// immediately preceding instruction is writing.
func (b *BypassNetwork) Acc(res ExecuteResult, acc uint8) uint8 {
	if res.WriteAcc {
		return res.AccValue
	}
	return acc
}
