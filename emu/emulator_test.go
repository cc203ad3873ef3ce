package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ucsim/emu"
	"github.com/sarchlab/ucsim/insts"
)

// program assembles a word list into a fresh emulator.
func program(words ...uint16) (*emu.Emulator, *emu.RAM) {
	ram := emu.NewRAM()
	rom := emu.NewROM(words)
	return emu.NewEmulator(rom, ram), ram
}

var _ = Describe("Emulator", func() {
	Describe("loads and stores", func() {
		It("should load an immediate into the accumulator", func() {
			e, _ := program(insts.Encode(insts.OpLDI, 0x42))

			e.Step()

			Expect(e.Regs().Acc).To(Equal(uint8(0x42)))
			Expect(e.Regs().PC).To(Equal(uint8(1)))
		})

		It("should store and load back through a direct address", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x55),
				insts.Encode(insts.OpSTA, 0x10),
				insts.Encode(insts.OpLDI, 0x00),
				insts.Encode(insts.OpLDA, 0x10),
			)

			e.Run(4)

			Expect(ram.Read(0x10)).To(Equal(uint8(0x55)))
			Expect(e.Regs().Acc).To(Equal(uint8(0x55)))
		})

		It("should write an index register through STA %IX", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x21),
				insts.Encode(insts.OpSTA, insts.OperandIX),
			)

			e.Run(2)

			Expect(e.Regs().IX).To(Equal(uint8(0x21)))
			Expect(ram.Read(0x21)).To(Equal(uint8(0x00)))
		})

		It("should read an index register through LDA %IY", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0x33),
				insts.Encode(insts.OpSTA, insts.OperandIY),
				insts.Encode(insts.OpLDI, 0x00),
				insts.Encode(insts.OpLDA, insts.OperandIY),
			)

			e.Run(4)

			Expect(e.Regs().Acc).To(Equal(uint8(0x33)))
		})
	})

	Describe("indexed addressing", func() {
		It("should store through @IX+ and increment IX afterwards", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x00),
				insts.Encode(insts.OpSTA, insts.OperandIX),
				insts.Encode(insts.OpLDI, 0x07),
				insts.Encode(insts.OpSTA, insts.OperandPostIX),
			)

			e.Run(4)

			Expect(ram.Read(0x00)).To(Equal(uint8(0x07)))
			Expect(e.Regs().IX).To(Equal(uint8(0x01)))
		})

		It("should decrement IY before addressing through @-IY", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x10),
				insts.Encode(insts.OpSTA, insts.OperandIY),
				insts.Encode(insts.OpLDI, 0x99),
				insts.Encode(insts.OpSTA, insts.OperandPreIY),
			)

			e.Run(4)

			Expect(e.Regs().IY).To(Equal(uint8(0x0F)))
			Expect(ram.Read(0x0F)).To(Equal(uint8(0x99)))
		})

		It("should wrap index increment at 0xFF", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0xFF),
				insts.Encode(insts.OpSTA, insts.OperandIX),
				insts.Encode(insts.OpLDA, insts.OperandPostIX),
			)

			e.Run(3)

			Expect(e.Regs().IX).To(Equal(uint8(0x00)))
		})

		It("should wrap index decrement at 0x00", func() {
			e, _ := program(
				insts.Encode(insts.OpLDA, insts.OperandPreIX),
			)

			e.Step()

			Expect(e.Regs().IX).To(Equal(uint8(0xFF)))
		})

		It("should address memory through the value held in IX", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x40),
				insts.Encode(insts.OpSTA, insts.OperandIX),
				insts.Encode(insts.OpLDI, 0xAB),
				insts.Encode(insts.OpSTA, insts.OperandIndIX),
			)

			e.Run(4)

			Expect(ram.Read(0x40)).To(Equal(uint8(0xAB)))
			Expect(e.Regs().IX).To(Equal(uint8(0x40)))
		})
	})

	Describe("arithmetic", func() {
		It("should keep the accumulator on immediate compare", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0x05),
				insts.Encode(insts.OpSBI, 0x05),
			)

			e.Run(2)

			Expect(e.Regs().Acc).To(Equal(uint8(0x05)))
			Expect(e.Regs().Flags.Z).To(BeTrue())
			Expect(e.Regs().Flags.C).To(BeFalse())
		})

		It("should set the borrow on compare below", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0x03),
				insts.Encode(insts.OpSBI, 0x08),
			)

			e.Run(2)

			Expect(e.Regs().Acc).To(Equal(uint8(0x03)))
			Expect(e.Regs().Flags.C).To(BeTrue())
		})

		It("should not let logic operations touch the carry", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0xFF),
				insts.Encode(insts.OpADI, 0x02), // sets carry
				insts.Encode(insts.OpANI, 0x00), // zero result, carry untouched
			)

			e.Run(3)

			Expect(e.Regs().Flags.C).To(BeTrue())
			Expect(e.Regs().Flags.Z).To(BeTrue())
			Expect(e.Regs().Acc).To(Equal(uint8(0x00)))
		})
	})

	Describe("control transfer", func() {
		It("should jump unconditionally", func() {
			e, _ := program(insts.Encode(insts.OpJMP, 0x20))

			e.Step()

			Expect(e.Regs().PC).To(Equal(uint8(0x20)))
		})

		It("should take BNC when the carry is clear", func() {
			e, _ := program(insts.Encode(insts.OpBNC, 0x30))

			e.Step()

			Expect(e.Regs().PC).To(Equal(uint8(0x30)))
		})

		It("should fall through BNZ when the zero flag is set", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0x01),
				insts.Encode(insts.OpSBI, 0x01), // sets Z
				insts.Encode(insts.OpBNZ, 0x30),
			)

			e.Run(3)

			Expect(e.Regs().PC).To(Equal(uint8(3)))
		})

		It("should jump through an index register", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0x50),
				insts.Encode(insts.OpSTA, insts.OperandIX),
				insts.Encode(insts.OpJPR, insts.OperandIX),
			)

			e.Run(3)

			Expect(e.Regs().PC).To(Equal(uint8(0x50)))
		})

		It("should jump through a memory cell", func() {
			e, _ := program(
				insts.Encode(insts.OpLDI, 0x77),
				insts.Encode(insts.OpSTA, 0x08),
				insts.Encode(insts.OpJPR, 0x08),
			)

			e.Run(3)

			Expect(e.Regs().PC).To(Equal(uint8(0x77)))
		})

		It("should apply index side effects of BNC with an indexed operand", func() {
			// BNC with a register-mode indexed operand still runs the
			// address resolver, so the autoincrement happens whether or
			// not the branch is taken.
			e, _ := program(insts.Encode(insts.OpBNC, insts.OperandPostIX))

			e.Step()

			Expect(e.Regs().IX).To(Equal(uint8(0x01)))
			Expect(e.Regs().PC).To(Equal(uint8(insts.OperandPostIX)))
		})
	})

	Describe("reserved encoding", func() {
		It("should execute STX as a no-op", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x0F),
				insts.Encode(insts.OpSTX, 0x10),
			)

			e.Run(2)

			Expect(e.Regs().Acc).To(Equal(uint8(0x0F)))
			Expect(ram.Read(0x10)).To(Equal(uint8(0x00)))
			Expect(e.Regs().PC).To(Equal(uint8(2)))
		})
	})

	Describe("Reset", func() {
		It("should restore power-on register state but keep memory", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x42),
				insts.Encode(insts.OpSTA, 0x10),
			)
			e.Run(2)

			e.Reset()

			Expect(e.Regs().PC).To(Equal(uint8(0)))
			Expect(e.Regs().Acc).To(Equal(uint8(0)))
			Expect(e.StepCount()).To(Equal(uint64(0)))
			Expect(ram.Read(0x10)).To(Equal(uint8(0x42)))
		})
	})

	Describe("program counter", func() {
		It("should wrap modulo 256 off the end of the ROM", func() {
			e, _ := program() // all zeros: ANA 00

			e.Run(256)

			Expect(e.Regs().PC).To(Equal(uint8(0)))
			Expect(e.StepCount()).To(Equal(uint64(256)))
		})
	})

	Describe("shared register file", func() {
		It("should execute through an externally owned register file", func() {
			regs := &emu.RegFile{}
			rom := emu.NewROM([]uint16{
				insts.Encode(insts.OpLDI, 0x42),
				insts.Encode(insts.OpSTA, insts.OperandIX),
			})
			e := emu.NewEmulator(rom, emu.NewRAM(), emu.WithRegFile(regs))

			e.Run(2)

			Expect(e.Regs()).To(BeIdenticalTo(regs))
			Expect(regs.Acc).To(Equal(uint8(0x42)))
			Expect(regs.IX).To(Equal(uint8(0x42)))
		})
	})

	Describe("data memory reuse", func() {
		It("should start from zeroed memory after Clear", func() {
			e, ram := program(
				insts.Encode(insts.OpLDI, 0x42),
				insts.Encode(insts.OpSTA, 0x10),
			)
			e.Run(2)
			Expect(ram.Read(0x10)).To(Equal(uint8(0x42)))

			e.Reset()
			ram.Clear()

			Expect(ram.Read(0x10)).To(Equal(uint8(0x00)))
		})
	})
})
