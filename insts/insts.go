// Package insts provides uCPU instruction definitions and decoding.
//
// This package implements decoding of 12-bit uCPU machine words into
// structured instruction representations. The instruction word is split into
// a 3-bit opcode, a 1-bit immediate/register selector, and an 8-bit operand
// field:
//   - ALU operations: ANA/ANI (AND), XRA/XRI (XOR), ADA/ADI (ADD),
//     SBA (SUB), SBI (compare immediate, flags only)
//   - Branches: BNC (carry clear), BNZ (zero clear)
//   - Jumps: JPR (register indirect), JMP (immediate)
//   - Memory: LDA/LDI (load accumulator), STA (store accumulator)
//
// Register-mode operands in the range 0xF8-0xFF select the index registers
// IX/IY or one of six indexed addressing modes instead of a direct data
// memory address.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0xD05) // LDI 0x05
//	fmt.Printf("Op: %v, Operand: 0x%02X\n", inst.Op, inst.Operand)
package insts
