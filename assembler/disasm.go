// disasm.go - one-instruction-at-a-time disassembler for the fantasycore
// instruction set.
package assembler

import "fmt"

// Instruction is one disassembled instruction: its mnemonic text and
// encoded byte length.
type Instruction struct {
	Text   string
	Length int
}

// Disassemble decodes one instruction starting at img[addr] (addr relative
// to img[0], not an absolute machine address) and renders it to assembly
// text in this package's own syntax. It never reads past len(img).
func Disassemble(img []byte, addr int) (Instruction, error) {
	if addr < 0 || addr+2 > len(img) {
		return Instruction{}, fmt.Errorf("disasm: address %d out of range", addr)
	}
	op, mode, size, rx, ry := Decode(img[addr], img[addr+1])
	length := int(mode.instructionLength())
	if addr+length > len(img) {
		return Instruction{}, fmt.Errorf("disasm: instruction at %d runs past end of image", addr)
	}

	var imm int
	switch {
	case mode.hasImmediateWord():
		imm = int(img[addr+2]) | int(img[addr+3])<<8
	case mode.hasImmediateByte():
		imm = int(img[addr+2])
	}

	sizeSuffix := ".w"
	if size == Size8 {
		sizeSuffix = ".b"
	}

	text := renderOperands(op, mode, sizeSuffix, rx, ry, imm)
	return Instruction{Text: text, Length: length}, nil
}

func renderOperands(op Opcode, mode AddressingMode, sizeSuffix string, rx, ry byte, imm int) string {
	mnem := op.String() + sizeSuffix
	switch mode {
	case AM_VOID:
		return op.String() // NOP/INT/RTS/RTI carry no meaningful size
	case AM_DR:
		return fmt.Sprintf("%s R%d", mnem, rx)
	case AM_IR:
		return fmt.Sprintf("%s (R%d)", mnem, rx)
	case AM_DB, AM_DW:
		return fmt.Sprintf("%s #$%X", mnem, imm)
	case AM_IB, AM_IW:
		return fmt.Sprintf("%s [$%X]", mnem, imm)
	case AM_DR_DR:
		return fmt.Sprintf("%s R%d, R%d", mnem, rx, ry)
	case AM_DR_IR:
		return fmt.Sprintf("%s R%d, (R%d)", mnem, rx, ry)
	case AM_IR_DR:
		return fmt.Sprintf("%s (R%d), R%d", mnem, rx, ry)
	case AM_DR_DB, AM_DR_DW:
		return fmt.Sprintf("%s R%d, #$%X", mnem, rx, imm)
	case AM_DR_IB, AM_DR_IW:
		return fmt.Sprintf("%s R%d, [$%X]", mnem, rx, imm)
	case AM_IB_DR, AM_IW_DR:
		return fmt.Sprintf("%s [$%X], R%d", mnem, imm, ry)
	default:
		return fmt.Sprintf("??? (opcode=%d mode=%d)", op, mode)
	}
}

// DisassembleAll decodes an entire image into a sequence of instructions,
// starting at addr 0, stopping at the first decode error (typically simply
// running off the end of the image).
func DisassembleAll(img []byte) []Instruction {
	var out []Instruction
	addr := 0
	for addr < len(img) {
		inst, err := Disassemble(img, addr)
		if err != nil {
			break
		}
		out = append(out, inst)
		addr += inst.Length
	}
	return out
}
