// Package emu provides functional uCPU emulation.
package emu

// ROM is the 256-word instruction memory. Each word holds one 12-bit
// instruction. Reads are purely combinational; the core only consumes it.
type ROM struct {
	words [256]uint16
}

// NewROM creates an instruction memory initialized from the given image.
// Images shorter than 256 words leave the remainder zeroed.
func NewROM(image []uint16) *ROM {
	r := &ROM{}
	r.LoadImage(image)
	return r
}

// LoadImage copies a program image into the ROM, masking each word to 12
// bits.
func (r *ROM) LoadImage(image []uint16) {
	for i := range r.words {
		r.words[i] = 0
	}
	for i, w := range image {
		if i >= len(r.words) {
			break
		}
		r.words[i] = w & 0xFFF
	}
}

// Fetch returns the 12-bit instruction word at the given address.
func (r *ROM) Fetch(addr uint8) uint16 {
	return r.words[addr]
}

// RAM is the 256-byte data memory. Reads are asynchronous; write ordering
// relative to the clock is the core's responsibility, so the core buffers
// its store and applies it at commit time.
type RAM struct {
	bytes [256]uint8
}

// NewRAM creates a zeroed data memory.
func NewRAM() *RAM {
	return &RAM{}
}

// Read returns the byte at the given address.
func (m *RAM) Read(addr uint8) uint8 {
	return m.bytes[addr]
}

// Write stores a byte at the given address.
func (m *RAM) Write(addr uint8, value uint8) {
	m.bytes[addr] = value
}

// Clear zeroes the data memory.
func (m *RAM) Clear() {
	m.bytes = [256]uint8{}
}
