// Package asm implements a two-pass assembler for the uCPU instruction set.
//
// Source syntax, one statement per line, tokens separated by white space,
// case insensitive:
//
//	[$label] [mnemonic [operand]] [; comment]
//
// Labels are "$" followed by a decimal number up to 9999. Register
// operands are "%" followed by two hex digits, or one of the symbolic
// index forms %IX, %IY, @IX, @IY, @IX+, @IY+, @-IX, @-IY. Immediate
// operands are plain two-digit hex. Branch targets are labels or plain
// hex addresses. The ORG directive moves the location counter.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/ucsim/insts"
	"github.com/sarchlab/ucsim/loader"
)

// operandKind classifies the operand a mnemonic accepts.
type operandKind int

const (
	// kindReg operands name a register, written with a "%" or "@" prefix.
	kindReg operandKind = iota
	// kindImm operands are plain two-digit hex literals.
	kindImm
	// kindLabel operands are "$"-labels or plain hex addresses.
	kindLabel
)

type mnemonic struct {
	op   insts.Op
	kind operandKind
}

var mnemonics = map[string]mnemonic{
	"ANA": {insts.OpANA, kindReg},
	"ANI": {insts.OpANI, kindImm},
	"XRA": {insts.OpXRA, kindReg},
	"XRI": {insts.OpXRI, kindImm},
	"ADA": {insts.OpADA, kindReg},
	"ADI": {insts.OpADI, kindImm},
	"SBA": {insts.OpSBA, kindReg},
	"SBI": {insts.OpSBI, kindImm},
	"BNC": {insts.OpBNC, kindLabel},
	"BNZ": {insts.OpBNZ, kindLabel},
	"JPR": {insts.OpJPR, kindReg},
	"JMP": {insts.OpJMP, kindLabel},
	"LDA": {insts.OpLDA, kindReg},
	"LDI": {insts.OpLDI, kindImm},
	"STA": {insts.OpSTA, kindReg},
	"STX": {insts.OpSTX, kindReg},
}

// indexOperands maps the symbolic index register forms to their encodings.
var indexOperands = map[string]uint8{
	"%IX":  insts.OperandIX,
	"%IY":  insts.OperandIY,
	"@IX":  insts.OperandIndIX,
	"@IY":  insts.OperandIndIY,
	"@IX+": insts.OperandPostIX,
	"@IY+": insts.OperandPostIY,
	"@-IX": insts.OperandPreIX,
	"@-IY": insts.OperandPreIY,
}

// maxLabel is the largest label number the assembler accepts.
const maxLabel = 9999

// Assembler assembles uCPU source into a 256-word ROM image. The zero
// value is not usable; construct with NewAssembler.
type Assembler struct {
	listing io.Writer

	labels   map[int]uint8
	defined  map[int]bool
	errs     []string
	warnings []string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithListing directs a per-line assembly listing to w.
func WithListing(w io.Writer) Option {
	return func(a *Assembler) {
		a.listing = w
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Warnings returns the warnings produced by the last Assemble call.
func (a *Assembler) Warnings() []string {
	return a.warnings
}

// AssembleFile assembles a source file into a Program.
func (a *Assembler) AssembleFile(path string) (*loader.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	prog, err := a.Assemble(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble %s: %w", path, err)
	}
	return prog, nil
}

// Assemble runs both passes over the source and returns the assembled
// Program. The first pass collects label definitions; the second resolves
// label operands and emits code. Any syntax error aborts before the second
// pass.
func (a *Assembler) Assemble(r io.Reader) (*loader.Program, error) {
	src, err := readLines(r)
	if err != nil {
		return nil, err
	}

	a.labels = make(map[int]uint8)
	a.defined = make(map[int]bool)
	a.errs = nil
	a.warnings = nil

	prog := &loader.Program{}
	a.runPass(src, prog, false)
	if len(a.errs) > 0 {
		return nil, fmt.Errorf("%d syntax error(s):\n%s",
			len(a.errs), strings.Join(a.errs, "\n"))
	}

	a.runPass(src, prog, true)
	if len(a.errs) > 0 {
		return nil, fmt.Errorf("%d error(s):\n%s",
			len(a.errs), strings.Join(a.errs, "\n"))
	}

	return prog, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return lines, nil
}

func (a *Assembler) runPass(lines []string, prog *loader.Program, second bool) {
	var pc uint8
	for num, line := range lines {
		pc = a.assembleLine(line, num, pc, prog, second)
	}
}

// assembleLine processes one source line and returns the next location
// counter value. Erroneous lines are ignored and leave the counter alone,
// except for ORG which always takes effect.
func (a *Assembler) assembleLine(
	line string, num int, pc uint8, prog *loader.Program, second bool,
) uint8 {
	stmt := line
	if i := strings.IndexByte(stmt, ';'); i >= 0 {
		stmt = stmt[:i]
	}
	tokens := strings.Fields(strings.ToUpper(stmt))

	// Optional label definition.
	var labelNum = -1
	if len(tokens) > 0 && strings.HasPrefix(tokens[0], "$") {
		n, ok := parseLabelNum(tokens[0][1:])
		if !ok {
			a.errorf(num, "incorrect label %q", tokens[0])
			return pc
		}
		labelNum = n
		if second && a.labels[n] != pc {
			a.warnings = append(a.warnings, fmt.Sprintf(
				"line %d: multiple definitions of label $%d, the last definition wins",
				num+1, n))
		}
		a.labels[n] = pc
		a.defined[n] = true
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		a.listLine(num, pc, labelNum, "", "", nil)
		return pc
	}

	name := tokens[0]
	if name == "ORG" {
		target, err := parseHexOperand(tokens)
		if err != nil {
			a.errorf(num, "%v", err)
			return pc
		}
		a.listLine(num, target, labelNum, name, operandText(tokens), nil)
		return target
	}

	m, ok := mnemonics[name]
	if !ok {
		a.errorf(num, "unexpected token %q", name)
		return pc
	}

	operand, err := a.parseOperand(tokens, m.kind, second)
	if err != nil {
		a.errorf(num, "%v", err)
		return pc
	}

	word := insts.Encode(m.op, operand)
	prog.Image[pc] = word
	a.listLine(num, pc, labelNum, name, operandText(tokens), &word)
	return pc + 1
}

// parseOperand decodes the operand token, enforcing the mnemonic's operand
// kind. A missing operand assembles as zero.
func (a *Assembler) parseOperand(
	tokens []string, kind operandKind, second bool,
) (uint8, error) {
	if len(tokens) < 2 {
		return 0, nil
	}
	tok := tokens[1]

	if strings.HasPrefix(tok, "$") {
		if kind != kindLabel {
			return 0, fmt.Errorf("label operand %q not allowed here", tok)
		}
		n, ok := parseLabelNum(tok[1:])
		if !ok {
			return 0, fmt.Errorf("incorrect label operand %q", tok)
		}
		if !a.defined[n] {
			if second {
				return 0, fmt.Errorf("label $%d is not defined", n)
			}
			return 0, nil
		}
		return a.labels[n], nil
	}

	if enc, ok := indexOperands[tok]; ok {
		if kind != kindReg {
			return 0, fmt.Errorf("indexed mode operand %q not allowed here", tok)
		}
		return enc, nil
	}

	if strings.HasPrefix(tok, "%") {
		if kind != kindReg {
			return 0, fmt.Errorf("register operand %q not allowed here", tok)
		}
		tok = tok[1:]
	} else if kind == kindReg {
		return 0, fmt.Errorf("register operand required, possibly add %q prefix to %q", "%", tok)
	}

	v, err := strconv.ParseUint(tok, 16, 8)
	if err != nil || len(tok) > 2 {
		return 0, fmt.Errorf("incorrect operand %q", tok)
	}
	return uint8(v), nil
}

func parseHexOperand(tokens []string) (uint8, error) {
	if len(tokens) < 2 {
		return 0, fmt.Errorf("ORG requires an address operand")
	}
	v, err := strconv.ParseUint(tokens[1], 16, 8)
	if err != nil || len(tokens[1]) > 2 {
		return 0, fmt.Errorf("incorrect ORG address %q", tokens[1])
	}
	return uint8(v), nil
}

// parseLabelNum parses the decimal part of a "$"-label.
func parseLabelNum(s string) (int, bool) {
	if len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxLabel {
		return 0, false
	}
	return n, true
}

func operandText(tokens []string) string {
	if len(tokens) < 2 {
		return ""
	}
	return tokens[1]
}

// errorf records a line-numbered error. The second pass only runs on
// syntactically clean sources, so every error it reports is new.
func (a *Assembler) errorf(num int, format string, args ...interface{}) {
	msg := fmt.Sprintf("line %d: %s", num+1, fmt.Sprintf(format, args...))
	a.errs = append(a.errs, msg)
}

// listLine emits one listing line when a listing writer is configured.
func (a *Assembler) listLine(
	num int, pc uint8, labelNum int, name, operand string, word *uint16,
) {
	if a.listing == nil {
		return
	}

	code := "   "
	if word != nil {
		code = fmt.Sprintf("%03X", *word)
	}
	label := ""
	if labelNum >= 0 {
		label = fmt.Sprintf("$%d", labelNum)
	}
	fmt.Fprintf(a.listing, "%4d:   %02X   %s   %-6s %-6s %s\n",
		num+1, pc, code, label, name, operand)
}
