// asm.go - two-pass assembler for the fantasycore instruction set.
//
// Syntax:
//
//	; comment to end of line
//	org $8000               set the assembly origin
//	NAME equ expr            define a constant
//	label:                   define a label at the current address
//	dc.b v,v,...             emit bytes ("strings" allowed, comma-separated)
//	dc.w v,v,...             emit little-endian words
//	ds.b n                   reserve n zero bytes
//	MNEM[.b|.w] [operands]   emit one instruction (default size .w)
//
// Operand syntax (register operands are R0..R5):
//
//	R0            direct register
//	(R0)          indirect through register
//	#expr         immediate value (byte or word, per the mnemonic's size)
//	[expr]        indirect through an immediate pointer
//
// Two-operand instructions take "dst, src" in that order.
package assembler

import (
	"fmt"
	"strconv"
	"strings"
)

// Assemble turns fantasycore assembly source into a flat byte image
// starting at the first `org` (default 0 if none is given); the returned
// slice is exactly origin-to-highest-emitted-address, with any gap before
// the origin not included.
func Assemble(source string) ([]byte, error) {
	lines := splitLines(source)

	symbols := map[string]int{}
	origin, size, err := firstPass(lines, symbols)
	if err != nil {
		return nil, err
	}

	img := make([]byte, size)
	if err := secondPass(lines, symbols, origin, img); err != nil {
		return nil, err
	}
	return img, nil
}

type srcLine struct {
	label string
	dir   string // directive/mnemonic, uppercased
	size  string // "b" or "w", lowercase, empty if not specified
	args  string
	raw   string
	num   int
}

func splitLines(source string) []srcLine {
	var out []srcLine
	for i, raw := range strings.Split(source, "\n") {
		line := raw
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sl := srcLine{raw: raw, num: i + 1}
		if idx := strings.IndexByte(line, ':'); idx >= 0 && !strings.ContainsAny(line[:idx], " \t") {
			sl.label = line[:idx]
			line = strings.TrimSpace(line[idx+1:])
			if line == "" {
				out = append(out, sl)
				continue
			}
		}
		if words := strings.Fields(line); len(words) >= 3 && strings.EqualFold(words[1], "equ") {
			sl.dir = "EQU"
			sl.label = words[0]
			sl.args = strings.Join(words[2:], " ")
			out = append(out, sl)
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		head := fields[0]
		if dot := strings.IndexByte(head, '.'); dot >= 0 {
			sl.dir = strings.ToUpper(head[:dot])
			sl.size = strings.ToLower(head[dot+1:])
		} else {
			sl.dir = strings.ToUpper(head)
		}
		if len(fields) > 1 {
			sl.args = strings.TrimSpace(fields[1])
		}
		out = append(out, sl)
	}
	return out
}

// firstPass resolves label addresses and the `equ` table, and computes the
// image's origin and total size. Instruction/directive lengths don't
// depend on label values (only on operand shape), so one pass suffices.
func firstPass(lines []srcLine, symbols map[string]int) (origin, size int, err error) {
	pc := 0
	haveOrigin := false
	for _, l := range lines {
		if l.label != "" {
			symbols[l.label] = pc
		}
		switch l.dir {
		case "":
			continue
		case "ORG":
			v, err := evalConst(l.args, symbols)
			if err != nil {
				return 0, 0, fmt.Errorf("line %d: org: %w", l.num, err)
			}
			if !haveOrigin {
				origin = v
				haveOrigin = true
			}
			pc = v
		case "EQU":
			v, err := evalConst(l.args, symbols)
			if err != nil {
				return 0, 0, fmt.Errorf("line %d: equ: %w", l.num, err)
			}
			symbols[l.label] = v
		case "DC":
			n, err := dcLength(l)
			if err != nil {
				return 0, 0, fmt.Errorf("line %d: %w", l.num, err)
			}
			pc += n
		case "DS":
			n, err := dsLength(l, symbols)
			if err != nil {
				return 0, 0, fmt.Errorf("line %d: %w", l.num, err)
			}
			pc += n
		default:
			n, err := instructionLengthFor(l)
			if err != nil {
				return 0, 0, fmt.Errorf("line %d: %w", l.num, err)
			}
			pc += n
		}
	}
	if !haveOrigin {
		origin = 0
	}
	return origin, pc - origin, nil
}

func secondPass(lines []srcLine, symbols map[string]int, origin int, img []byte) error {
	pc := origin
	for _, l := range lines {
		switch l.dir {
		case "":
			continue
		case "ORG":
			v, _ := evalConst(l.args, symbols)
			pc = v
		case "EQU":
			continue
		case "DC":
			bytes, err := dcBytes(l, symbols)
			if err != nil {
				return fmt.Errorf("line %d: %w", l.num, err)
			}
			copy(img[pc-origin:], bytes)
			pc += len(bytes)
		case "DS":
			n, _ := dsLength(l, symbols)
			pc += n
		default:
			enc, err := assembleInstruction(l, symbols)
			if err != nil {
				return fmt.Errorf("line %d: %w", l.num, err)
			}
			copy(img[pc-origin:], enc)
			pc += len(enc)
		}
	}
	return nil
}

func dcLength(l srcLine) (int, error) {
	unit := 1
	switch l.size {
	case "", "b":
		unit = 1
	case "w":
		unit = 2
	default:
		return 0, fmt.Errorf("dc.%s: unsupported size", l.size)
	}
	n := 0
	for _, item := range splitArgs(l.args) {
		item = strings.TrimSpace(item)
		if strings.HasPrefix(item, "\"") {
			n += len(unquote(item))
			continue
		}
		n += unit
	}
	return n, nil
}

func dcBytes(l srcLine, symbols map[string]int) ([]byte, error) {
	var out []byte
	for _, item := range splitArgs(l.args) {
		item = strings.TrimSpace(item)
		if strings.HasPrefix(item, "\"") {
			out = append(out, unquote(item)...)
			continue
		}
		v, err := evalConst(item, symbols)
		if err != nil {
			return nil, err
		}
		switch l.size {
		case "", "b":
			out = append(out, byte(v))
		case "w":
			out = append(out, byte(v), byte(v>>8))
		}
	}
	return out, nil
}

func dsLength(l srcLine, symbols map[string]int) (int, error) {
	n, err := evalConst(l.args, symbols)
	if err != nil {
		return 0, err
	}
	switch l.size {
	case "", "b":
		return n, nil
	case "w":
		return n * 2, nil
	}
	return 0, fmt.Errorf("ds.%s: unsupported size", l.size)
}

func splitArgs(s string) []string {
	var out []string
	depth := 0
	start := 0
	inStr := false
	for i, r := range s {
		switch r {
		case '"':
			inStr = !inStr
		case '(', '[':
			if !inStr {
				depth++
			}
		case ')', ']':
			if !inStr {
				depth--
			}
		case ',':
			if depth == 0 && !inStr {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func unquote(s string) []byte {
	s = strings.Trim(s, "\"")
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\0", "\x00")
	return []byte(s)
}

// operand is a parsed, not-yet-encoded operand reference.
type operand struct {
	kind byte // 'r' register, 'i' indirect register, '#' immediate, '@' immediate pointer
	reg  byte
	expr string
}

func parseOperand(tok string) (operand, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")"):
		r, err := parseReg(strings.TrimSpace(tok[1 : len(tok)-1]))
		if err != nil {
			return operand{}, err
		}
		return operand{kind: 'i', reg: r}, nil
	case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
		return operand{kind: '@', expr: strings.TrimSpace(tok[1 : len(tok)-1])}, nil
	case strings.HasPrefix(tok, "#"):
		return operand{kind: '#', expr: tok[1:]}, nil
	case len(tok) >= 2 && (tok[0] == 'R' || tok[0] == 'r'):
		if r, err := parseReg(tok); err == nil {
			return operand{kind: 'r', reg: r}, nil
		}
		// Falls through to the bare-symbol case below: a label can
		// legally start with 'r' (e.g. "restart:") without being R<n>.
		return operand{kind: '#', expr: tok}, nil
	}
	if tok == "" {
		return operand{}, fmt.Errorf("empty operand")
	}
	// A bare identifier or numeric literal: a jump/call target or
	// immediate value written without the "#" sigil.
	return operand{kind: '#', expr: tok}, nil
}

func parseReg(tok string) (byte, error) {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	if len(tok) < 2 || tok[0] != 'R' {
		return 0, fmt.Errorf("not a register: %q", tok)
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 0 || n > 5 {
		return 0, fmt.Errorf("register out of range R0-R5: %q", tok)
	}
	return byte(n), nil
}

func operandsOf(l srcLine) ([]operand, error) {
	if l.args == "" {
		return nil, nil
	}
	var ops []operand
	for _, part := range splitArgs(l.args) {
		op, err := parseOperand(part)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// resolveMode picks the addressing mode for an opcode family given its
// parsed operands, mirroring addressing.go's validModeFor in reverse (shape
// -> mode instead of mode -> validity).
func resolveMode(op Opcode, ops []operand) (AddressingMode, error) {
	switch {
	case op.voidOnly():
		if len(ops) != 0 {
			return 0, fmt.Errorf("%s takes no operands", op)
		}
		return AM_VOID, nil
	case op.flowControlFamily() || op.oneOperandALU():
		if len(ops) != 1 {
			return 0, fmt.Errorf("%s takes exactly one operand", op)
		}
		switch ops[0].kind {
		case 'r':
			return AM_DR, nil
		case 'i':
			return AM_IR, nil
		case '#':
			return AM_DB, nil // size resolved by caller; DB placeholder, widened below
		case '@':
			return AM_IB, nil
		}
	case op.twoOperandALU():
		if len(ops) != 2 {
			return 0, fmt.Errorf("%s takes exactly two operands", op)
		}
		dst, src := ops[0], ops[1]
		switch {
		case dst.kind == 'r' && src.kind == 'r':
			return AM_DR_DR, nil
		case dst.kind == 'r' && src.kind == 'i':
			return AM_DR_IR, nil
		case dst.kind == 'i' && src.kind == 'r':
			return AM_IR_DR, nil
		case dst.kind == 'r' && src.kind == '#':
			return AM_DR_DB, nil
		case dst.kind == 'r' && src.kind == '@':
			return AM_DR_IB, nil
		case dst.kind == '@' && src.kind == 'r':
			return AM_IB_DR, nil
		}
		return 0, fmt.Errorf("unsupported operand combination for %s", op)
	}
	return 0, fmt.Errorf("unsupported operand for %s", op)
}

// widenForSize upgrades a byte-immediate mode to its word-immediate sibling
// when the instruction's size suffix is .w (the default).
func widenForSize(m AddressingMode, size OperandSize) AddressingMode {
	if size == Size8 {
		return m
	}
	switch m {
	case AM_DB:
		return AM_DW
	case AM_IB:
		return AM_IW
	case AM_DR_DB:
		return AM_DR_DW
	case AM_DR_IB:
		return AM_DR_IW
	case AM_IB_DR:
		return AM_IW_DR
	}
	return m
}

func sizeOf(l srcLine) OperandSize {
	if l.size == "b" {
		return Size8
	}
	return Size16
}

func instructionLengthFor(l srcLine) (int, error) {
	opcode, ok := mnemonicToOpcode[l.dir]
	if !ok {
		return 0, fmt.Errorf("unknown mnemonic %q", l.dir)
	}
	ops, err := operandsOf(l)
	if err != nil {
		return 0, err
	}
	mode, err := resolveMode(opcode, ops)
	if err != nil {
		return 0, err
	}
	mode = widenForSize(mode, sizeOf(l))
	return int(mode.instructionLength()), nil
}

// evalConst evaluates a constant expression: decimal or $hex/0xhex
// literals, previously defined symbols (equ values or label addresses),
// and left-to-right +/- combinations of those. A toy assembler's
// expression grammar, not a general arithmetic parser.
func evalConst(expr string, symbols map[string]int) (int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("empty expression")
	}
	terms := splitSigned(expr)
	total := 0
	for _, t := range terms {
		v, err := evalTerm(t.text, symbols)
		if err != nil {
			return 0, err
		}
		if t.neg {
			total -= v
		} else {
			total += v
		}
	}
	return total, nil
}

type signedTerm struct {
	text string
	neg  bool
}

func splitSigned(expr string) []signedTerm {
	var out []signedTerm
	neg := false
	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '+':
			out = append(out, signedTerm{strings.TrimSpace(expr[start:i]), neg})
			neg, start = false, i+1
		case '-':
			if i == start {
				neg = true
				start = i + 1
				continue
			}
			out = append(out, signedTerm{strings.TrimSpace(expr[start:i]), neg})
			neg, start = true, i+1
		}
	}
	out = append(out, signedTerm{strings.TrimSpace(expr[start:]), neg})
	return out
}

func evalTerm(tok string, symbols map[string]int) (int, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case strings.HasPrefix(tok, "$"):
		v, err := strconv.ParseInt(strings.ReplaceAll(tok[1:], "_", ""), 16, 64)
		return int(v), err
	case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
		v, err := strconv.ParseInt(strings.ReplaceAll(tok[2:], "_", ""), 16, 64)
		return int(v), err
	case tok != "" && (tok[0] >= '0' && tok[0] <= '9'):
		v, err := strconv.Atoi(strings.ReplaceAll(tok, "_", ""))
		return v, err
	default:
		if v, ok := symbols[tok]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("undefined symbol %q", tok)
	}
}

func assembleInstruction(l srcLine, symbols map[string]int) ([]byte, error) {
	opcode, ok := mnemonicToOpcode[l.dir]
	if !ok {
		return nil, fmt.Errorf("unknown mnemonic %q", l.dir)
	}
	ops, err := operandsOf(l)
	if err != nil {
		return nil, err
	}
	mode, err := resolveMode(opcode, ops)
	if err != nil {
		return nil, err
	}
	size := sizeOf(l)
	mode = widenForSize(mode, size)

	var rx, ry byte
	switch len(ops) {
	case 1:
		if ops[0].kind == 'r' || ops[0].kind == 'i' {
			rx = ops[0].reg
		}
	case 2:
		if ops[0].kind == 'r' || ops[0].kind == 'i' {
			rx = ops[0].reg
		}
		if ops[1].kind == 'r' || ops[1].kind == 'i' {
			ry = ops[1].reg
		}
	}

	ib0, ib1 := Encode(opcode, mode, size, rx, ry)
	out := []byte{ib0, ib1}

	var immExpr string
	switch {
	case len(ops) == 1 && (ops[0].kind == '#' || ops[0].kind == '@'):
		immExpr = ops[0].expr
	case len(ops) == 2 && (ops[1].kind == '#' || ops[1].kind == '@'):
		immExpr = ops[1].expr
	case len(ops) == 2 && ops[0].kind == '@':
		immExpr = ops[0].expr
	}
	if mode.hasImmediateByte() || mode.hasImmediateWord() {
		v, err := evalConst(immExpr, symbols)
		if err != nil {
			return nil, err
		}
		if mode.hasImmediateByte() {
			out = append(out, byte(v))
		} else {
			out = append(out, byte(v), byte(v>>8))
		}
	}
	return out, nil
}
