// Package main provides the entry point for ucsim.
// ucsim is a cycle-accurate simulator for the uCPU 8-bit processor.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/ucsim/asm"
	"github.com/sarchlab/ucsim/emu"
	"github.com/sarchlab/ucsim/loader"
	"github.com/sarchlab/ucsim/timing/core"
	"github.com/sarchlab/ucsim/timing/trace"
)

var (
	timing     = flag.Bool("timing", false, "Enable cycle-accurate timing simulation mode")
	cycles     = flag.Uint64("cycles", 1000, "Number of cycles (timing) or steps (emulation) to run")
	tracePath  = flag.String("trace", "", "Path to write a per-cycle JSON trace (timing mode)")
	configPath = flag.String("config", "", "Path to trace configuration JSON file")
	listPath   = flag.String("lst", "", "Path to write the assembler listing")
	hexOut     = flag.String("o", "", "Path to write the assembled hex image")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: ucsim [options] <program.hex | program.asm>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *hexOut != "" {
		if err := prog.Save(*hexOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing hex image: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Wrote hex image: %s\n", *hexOut)
		}
	}

	if *timing {
		runTiming(prog, programPath)
	} else {
		runEmulation(prog, programPath)
	}
}

// loadProgram reads a program from disk, assembling it first when the file
// is assembly source rather than a hex image.
func loadProgram(path string) (*loader.Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s", ".uc":
		return assemble(path)
	}
	return loader.Load(path)
}

func assemble(path string) (*loader.Program, error) {
	var opts []asm.Option
	if *listPath != "" {
		f, err := os.Create(*listPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create listing file: %w", err)
		}
		defer func() { _ = f.Close() }()
		opts = append(opts, asm.WithListing(f))
	}

	assembler := asm.NewAssembler(opts...)
	prog, err := assembler.AssembleFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range assembler.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return prog, nil
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(prog *loader.Program, programPath string) {
	rom := emu.NewROM(prog.Image[:])
	ram := emu.NewRAM()

	emulator := emu.NewEmulator(rom, ram)
	emulator.Run(*cycles)

	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Steps executed: %d\n", emulator.StepCount())
	printRegs(emulator.Regs())

	if *verbose {
		printRAM(ram)
	}
}

// runTiming runs the program on the pipelined core, clocked by an Akita
// event engine.
func runTiming(prog *loader.Program, programPath string) {
	rom := emu.NewROM(prog.Image[:])
	ram := emu.NewRAM()
	regFile := &emu.RegFile{}

	c := core.NewCore(regFile, rom, ram)

	var recorder *trace.Recorder
	if *tracePath != "" {
		traceConfig := trace.DefaultConfig()
		if *configPath != "" {
			var err error
			traceConfig, err = trace.LoadConfig(*configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading trace config: %v\n", err)
				os.Exit(1)
			}
			if err := traceConfig.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid trace config: %v\n", err)
				os.Exit(1)
			}
		}
		recorder = trace.NewRecorder(traceConfig)
	}

	engine := sim.NewSerialEngine()
	comp := core.NewComp("Core", engine, 1*sim.GHz, c, *cycles)
	if recorder != nil {
		comp.SetObserver(recorder.Record)
	}

	if err := engine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		os.Exit(1)
	}

	if recorder != nil {
		if err := recorder.Save(*tracePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trace: %v\n", err)
			os.Exit(1)
		}
	}

	stats := c.Stats()

	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("Instructions retired: %d\n", stats.Instructions)
	fmt.Printf("CPI: %.2f\n", stats.CPI())
	fmt.Printf("\n")
	fmt.Printf("Pipeline Events:\n")
	fmt.Printf("  Bubbles:        %d\n", stats.Bubbles)
	fmt.Printf("  Branches taken: %d\n", stats.BranchesTaken)
	fmt.Printf("  Register jumps: %d\n", stats.RegJumps)
	fmt.Printf("\n")
	printRegs(regFile)

	if *verbose {
		printRAM(ram)
	}
}

func printRegs(regs *emu.RegFile) {
	fmt.Printf("Final state:\n")
	fmt.Printf("  PC:  0x%02X\n", regs.PC)
	fmt.Printf("  Acc: 0x%02X\n", regs.Acc)
	fmt.Printf("  IX:  0x%02X\n", regs.IX)
	fmt.Printf("  IY:  0x%02X\n", regs.IY)
	fmt.Printf("  CF:  %t\n", regs.Flags.C)
	fmt.Printf("  ZF:  %t\n", regs.Flags.Z)
}

func printRAM(ram *emu.RAM) {
	fmt.Printf("\nData memory:\n")
	for i := 0; i < 256; i += 16 {
		fmt.Printf("  %02X:", i)
		for j := 0; j < 16; j++ {
			fmt.Printf(" %02X", ram.Read(uint8(i+j)))
		}
		fmt.Printf("\n")
	}
}
