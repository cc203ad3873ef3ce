package pipeline

import (
	"github.com/sarchlab/ucsim/emu"
	"github.com/sarchlab/ucsim/insts"
)

// resetIR is the instruction-register value forced by reset: an
// unconditional jump to address 0, guaranteeing a clean pipeline fill once
// reset is released.
var resetIR = insts.Encode(insts.OpJMP, 0x00)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions that completed the
	// execute stage with their commits applied.
	Instructions uint64
	// Bubbles is the number of suppressed stage commits.
	Bubbles uint64
	// BranchesTaken counts taken branches and immediate jumps.
	BranchesTaken uint64
	// RegJumps counts register-indirect jumps.
	RegJumps uint64
}

// CPI returns the cycles per retired instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// ArchState is a snapshot of the architectural state, taken between ticks.
type ArchState struct {
	Cycle uint64    `json:"cycle"`
	PC    uint8     `json:"pc"`
	IR    uint16    `json:"ir"`
	Acc   uint8     `json:"acc"`
	IX    uint8     `json:"ix"`
	IY    uint8     `json:"iy"`
	CF    bool      `json:"cf"`
	ZF    bool      `json:"zf"`
	Skip  SkipState `json:"skip"`
}

// Pipeline implements the 3-stage pipelined uCPU core: Fetch, Decode with
// address resolution, and Execute with writeback, advancing in lock-step on
// a single clock. Control hazards are resolved by the SkipState bubble
// machine; data hazards between adjacent instructions are removed by the
// bypass network.
//
// Every stage computes its next value from the pre-tick values of all
// registers and external memory; all next-state values are buffered and
// committed together at the end of Tick.
type Pipeline struct {
	// Pipeline latches
	fetch FetchLatch
	exec  ExecLatch

	// Pipeline stages
	decodeStage  *DecodeStage
	executeStage *ExecuteStage

	// Hazard resolution
	skip   SkipState
	bypass *BypassNetwork

	// Shared resources
	regFile *emu.RegFile
	rom     InstructionMemory
	ram     DataMemory

	// Statistics
	stats Statistics
}

// NewPipeline creates a new 3-stage pipeline over the given register file
// and memory collaborators, in reset state.
func NewPipeline(regFile *emu.RegFile, rom InstructionMemory, ram DataMemory) *Pipeline {
	p := &Pipeline{
		decodeStage:  NewDecodeStage(),
		executeStage: NewExecuteStage(),
		bypass:       NewBypassNetwork(),
		regFile:      regFile,
		rom:          rom,
		ram:          ram,
	}
	p.Reset()
	return p
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint8 {
	return p.regFile.PC
}

// GetFetchLatch returns the fetch/decode pipeline latch.
func (p *Pipeline) GetFetchLatch() *FetchLatch {
	return &p.fetch
}

// GetExecLatch returns the decode/execute pipeline latch.
func (p *Pipeline) GetExecLatch() *ExecLatch {
	return &p.exec
}

// Skip returns the current bubble state.
func (p *Pipeline) Skip() SkipState {
	return p.skip
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// State returns a snapshot of the architectural state.
func (p *Pipeline) State() ArchState {
	return ArchState{
		Cycle: p.stats.Cycles,
		PC:    p.regFile.PC,
		IR:    p.fetch.IR,
		Acc:   p.regFile.Acc,
		IX:    p.regFile.IX,
		IY:    p.regFile.IY,
		CF:    p.regFile.Flags.C,
		ZF:    p.regFile.Flags.Z,
		Skip:  p.skip,
	}
}

// Reset forces the power-on state: zeroed registers and flags, no bubble,
// and an instruction register holding "jump to address 0". External
// memories are collaborators and are not touched.
func (p *Pipeline) Reset() {
	p.regFile.Reset()
	p.fetch = FetchLatch{Valid: true, PC: 0, IR: resetIR}
	p.exec.Clear()
	p.skip = NoSkip
	p.stats = Statistics{}
}

// RunCycles executes the pipeline for the specified number of cycles. The
// core itself never halts; the caller decides when to stop clocking it.
func (p *Pipeline) RunCycles(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		p.Tick()
	}
}

// Tick executes one clock cycle.
//
// The stages are evaluated back to front against pre-tick state: the
// execute stage computes its pending commits, the decode stage observes
// them through the bypass network, the fetch stage reads the ROM, and the
// next program counter is selected. Only then is everything committed
// atomically: accumulator and flags, the data-memory store, the index
// register updates, the pipeline latches, and the program counter. The
// program counter is never suppressed; a bubbled stage leaves architectural
// state alone exactly as a no-op would.
func (p *Pipeline) Tick() {
	p.stats.Cycles++

	suppress2 := p.skip.SuppressDecode()
	suppress3 := p.skip.SuppressExecute()

	// Stage 3: execute and writeback.
	execResult := p.executeStage.Execute(&p.exec, p.regFile, p.ram, suppress3)
	if p.exec.Valid {
		if suppress3 {
			p.stats.Bubbles++
		} else {
			p.stats.Instructions++
		}
	}

	// Stage 2: decode and address resolution, observing stage-3 values
	// through the bypass network.
	var decResult DecodeResult
	decodeLive := p.fetch.Valid && !suppress2
	if decodeLive {
		flags := p.bypass.Flags(execResult, p.regFile.Flags)
		acc := p.bypass.Acc(execResult, p.regFile.Acc)
		decResult = p.decodeStage.Decode(&p.fetch, p.regFile, p.ram, flags, acc)
	} else if p.fetch.Valid {
		p.stats.Bubbles++
	}

	// Stage 1: fetch.
	nextIR := p.rom.Fetch(p.regFile.PC)

	// Next-PC selection: register-indirect jump first, then a taken
	// branch or immediate jump, then the incrementer.
	nextPC := p.regFile.PC + 1
	switch {
	case decResult.RegJump:
		nextPC = decResult.JumpTarget
		p.stats.RegJumps++
	case decResult.BranchTaken:
		nextPC = decResult.Target
		p.stats.BranchesTaken++
	}

	nextSkip := p.skip.Next(decResult.RegJump, decResult.BranchTaken)

	// Commit phase: all reads above used pre-tick state.
	if execResult.WriteAcc {
		p.regFile.Acc = execResult.AccValue
	}
	if execResult.WriteC {
		p.regFile.Flags.C = execResult.Flags.C
	}
	if execResult.WriteZ {
		p.regFile.Flags.Z = execResult.Flags.Z
	}
	if execResult.StoreMem {
		p.ram.Write(execResult.StoreAddr, execResult.StoreData)
	}
	if decodeLive {
		decResult.AutoUpdate.Apply(p.regFile)
		decResult.StoreUpdate.Apply(p.regFile)
	}

	p.exec = ExecLatch{}
	if decodeLive {
		p.exec = ExecLatch{
			Valid: true,
			PC:    p.fetch.PC,
			Inst:  decResult.Inst,
			ID:    decResult.ID,
			EA:    decResult.EA,
		}
	}
	p.fetch = FetchLatch{Valid: true, PC: p.regFile.PC, IR: nextIR}
	p.skip = nextSkip
	p.regFile.PC = nextPC
}
