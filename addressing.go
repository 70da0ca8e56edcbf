package main

// AddressingMode is the 4-bit operand-kind tag split across IB0[1:0] and
// IB1[7:6]. D=direct, I=indirect, R=register, B=byte immediate, W=word
// immediate. For the single-operand modes "direct"
// means "use the value itself" and "indirect" means "dereference once";
// for the two-operand modes the name is operand1_operand2, operand1 bound
// to RX and operand2 to RY.
type AddressingMode byte

const (
	AM_VOID AddressingMode = iota
	AM_DR
	AM_IR
	AM_DB
	AM_IB
	AM_DW
	AM_IW
	AM_DR_DR
	AM_DR_IR
	AM_IR_DR
	AM_DR_DB
	AM_DR_IB
	AM_IB_DR
	AM_DR_DW
	AM_DR_IW
	AM_IW_DR

	numAddressingModes = 16
)

var addressingModeNames = [numAddressingModes]string{
	AM_VOID: "VOID", AM_DR: "DR", AM_IR: "IR", AM_DB: "DB",
	AM_IB: "IB", AM_DW: "DW", AM_IW: "IW", AM_DR_DR: "DR_DR",
	AM_DR_IR: "DR_IR", AM_IR_DR: "IR_DR", AM_DR_DB: "DR_DB",
	AM_DR_IB: "DR_IB", AM_IB_DR: "IB_DR", AM_DR_DW: "DR_DW",
	AM_DR_IW: "DR_IW", AM_IW_DR: "IW_DR",
}

func (m AddressingMode) String() string {
	if int(m) < len(addressingModeNames) {
		return addressingModeNames[m]
	}
	return "?AM"
}

func (m AddressingMode) valid() bool { return m < numAddressingModes }

func (m AddressingMode) isVoid() bool { return m == AM_VOID }

func (m AddressingMode) isDROnly() bool { return m == AM_DR_DR }

// hasImmediateByte reports whether the instruction carries a DB0 byte.
func (m AddressingMode) hasImmediateByte() bool {
	switch m {
	case AM_DB, AM_IB, AM_DR_DB, AM_DR_IB, AM_IB_DR:
		return true
	}
	return false
}

// hasImmediateWord reports whether the instruction carries DB0/DB1 as a
// little-endian word.
func (m AddressingMode) hasImmediateWord() bool {
	switch m {
	case AM_DW, AM_IW, AM_DR_DW, AM_DR_IW, AM_IW_DR:
		return true
	}
	return false
}

// isOneOperand reports the six single-operand modes excluding VOID.
func (m AddressingMode) isOneOperand() bool {
	switch m {
	case AM_DR, AM_IR, AM_DB, AM_IB, AM_DW, AM_IW:
		return true
	}
	return false
}

// isSrcIndirect: two-operand mode whose source (op2, bound to RY) is
// dereferenced through a register.
func (m AddressingMode) isSrcIndirect() bool { return m == AM_DR_IR }

// isDstIndirect: destination (op1, bound to RX, or the sole operand) is
// dereferenced through a register.
func (m AddressingMode) isDstIndirect() bool {
	switch m {
	case AM_IR, AM_IR_DR:
		return true
	}
	return false
}

// op1IsImmediate reports the sole operand being a literal (no write-back
// target exists).
func (m AddressingMode) op1IsImmediate() bool { return m == AM_DB || m == AM_DW }

func (m AddressingMode) op2IsImmediate() bool { return m == AM_DR_DB || m == AM_DR_DW }

// op1IsImmediatePointer: destination addressed by dereferencing an
// immediate byte/word pointer (zero-page-style / word-table-style).
func (m AddressingMode) op1IsImmediatePointer() bool {
	switch m {
	case AM_IB_DR, AM_IW_DR:
		return true
	}
	return false
}

// op2IsImmediatePointer: source addressed by dereferencing an immediate
// byte/word pointer.
func (m AddressingMode) op2IsImmediatePointer() bool {
	switch m {
	case AM_DR_IB, AM_DR_IW:
		return true
	}
	return false
}

// instructionLength is the total byte count of the encoded instruction:
// the 2-byte prefix plus any immediate data.
func (m AddressingMode) instructionLength() uint16 {
	n := uint16(2)
	if m.hasImmediateByte() {
		n++
	}
	if m.hasImmediateWord() {
		n += 2
	}
	return n
}

// Instruction is the decoded form of a two-byte prefix: a pure function of
// IB0/IB1 with no side effects.
type Instruction struct {
	Opcode Opcode
	Mode   AddressingMode
	Size   OperandSize
	RX     byte
	RY     byte
}

// Decode extracts opcode, addressing mode, operand size and register
// fields from the two prefix bytes.
func Decode(ib0, ib1 byte) Instruction {
	opcode := Opcode(ib0 >> 3)
	size := OperandSize((ib0 >> 2) & 1)
	amHi := ib0 & 0x3
	amLo := (ib1 >> 6) & 0x3
	am := AddressingMode((amHi << 2) | amLo)
	rx := (ib1 >> 3) & 0x7
	ry := ib1 & 0x7
	return Instruction{Opcode: opcode, Mode: am, Size: size, RX: rx, RY: ry}
}

// validOpcode reports whether the opcode is one of the 32 defined slots.
func validOpcode(o Opcode) bool { return o <= maxOpcode }

// validModeFor reports whether the addressing mode is an acceptable
// pairing for the opcode's operand-count family. Nonsense pairings
// (e.g. ADD with AM_VOID) are treated the same as an invalid opcode:
// a masked NOP plus a diagnostic.
func validModeFor(o Opcode, m AddressingMode) bool {
	if !m.valid() {
		return false
	}
	switch {
	case o.voidOnly():
		return m == AM_VOID
	case o.flowControlFamily():
		return m.isOneOperand()
	case o.oneOperandALU():
		return m.isOneOperand()
	case o.twoOperandALU():
		return !m.isVoid() && !m.isOneOperand()
	}
	return false
}
