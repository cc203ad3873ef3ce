// Package loader provides hex ROM image loading for uCPU programs.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ROMWords is the number of words in a full ROM image.
const ROMWords = 256

// WordMask selects the 12 valid bits of a program word.
const WordMask = 0xFFF

// Program represents a loaded ROM image ready for execution.
type Program struct {
	// Image holds one word per ROM address. Execution begins at
	// address 0 after reset.
	Image [ROMWords]uint16
}

// Load reads a hex ROM image file and returns a Program ready for loading
// into the simulator's instruction memory.
//
// The format is the assembler's object format: whitespace-separated 3-digit
// hex words, 16 per line, 16 lines. Shorter images are accepted and padded
// with zeros.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hex file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return prog, nil
}

// Read parses a hex ROM image from a reader.
func Read(r io.Reader) (*Program, error) {
	prog := &Program{}
	addr := 0

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		token := scanner.Text()

		word, err := strconv.ParseUint(token, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid word %q at address 0x%02X: %w",
				token, addr, err)
		}
		if word > WordMask {
			return nil, fmt.Errorf("word %q at address 0x%02X exceeds 12 bits",
				token, addr)
		}
		if addr >= ROMWords {
			return nil, fmt.Errorf("image exceeds %d words", ROMWords)
		}

		prog.Image[addr] = uint16(word)
		addr++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hex image: %w", err)
	}

	return prog, nil
}

// Save writes a Program to a hex image file in the assembler's object
// format.
func (p *Program) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create hex file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := p.Write(f); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Write emits the image as 16 lines of 16 space-separated 3-digit hex
// words.
func (p *Program) Write(w io.Writer) error {
	var sb strings.Builder
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			fmt.Fprintf(&sb, " %03X", p.Image[i*16+j])
		}
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write hex image: %w", err)
	}
	return nil
}
