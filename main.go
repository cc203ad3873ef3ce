// Package main provides the entry point for ucsim.
// ucsim is a cycle-accurate uCPU simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/ucsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ucsim - uCPU 8-bit Processor Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: ucsim [options] <program.hex | program.asm>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Enable cycle-accurate timing simulation mode")
	fmt.Println("  -cycles    Number of cycles (timing) or steps (emulation) to run")
	fmt.Println("  -trace     Path to write a per-cycle JSON trace")
	fmt.Println("  -config    Path to trace configuration JSON file")
	fmt.Println("  -lst       Path to write the assembler listing")
	fmt.Println("  -o         Path to write the assembled hex image")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ucsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ucsim' instead.")
	}
}
