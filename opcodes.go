package main

// Opcode is the 5-bit operation selector decoded from IB0[7:3].
type Opcode byte

const (
	OpNOP Opcode = 0x00
	OpINT Opcode = 0x01
	OpRTS Opcode = 0x02
	OpRTI Opcode = 0x03
	OpJP  Opcode = 0x04
	OpCL  Opcode = 0x05
	OpJZ  Opcode = 0x06
	OpCZ  Opcode = 0x07
	OpJC  Opcode = 0x08
	OpCC  Opcode = 0x09
	OpJO  Opcode = 0x0A
	OpCO  Opcode = 0x0B
	OpJN  Opcode = 0x0C
	OpCN  Opcode = 0x0D
	OpNOT Opcode = 0x0E
	OpINC Opcode = 0x0F
	OpDEC Opcode = 0x10
	OpIND Opcode = 0x11
	OpDED Opcode = 0x12
	OpMV  Opcode = 0x13
	OpCMP Opcode = 0x14
	OpTST Opcode = 0x15
	OpADD Opcode = 0x16
	OpSUB Opcode = 0x17
	OpMUL Opcode = 0x18
	OpDIV Opcode = 0x19
	OpLSL Opcode = 0x1A
	OpLSR Opcode = 0x1B
	OpASR Opcode = 0x1C
	OpAND Opcode = 0x1D
	OpOR  Opcode = 0x1E
	OpXOR Opcode = 0x1F

	maxOpcode = 0x1F
)

var opcodeNames = [32]string{
	OpNOP: "NOP", OpINT: "INT", OpRTS: "RTS", OpRTI: "RTI",
	OpJP: "JP", OpCL: "CL", OpJZ: "JZ", OpCZ: "CZ",
	OpJC: "JC", OpCC: "CC", OpJO: "JO", OpCO: "CO",
	OpJN: "JN", OpCN: "CN", OpNOT: "NOT", OpINC: "INC",
	OpDEC: "DEC", OpIND: "IND", OpDED: "DED", OpMV: "MV",
	OpCMP: "CMP", OpTST: "TST", OpADD: "ADD", OpSUB: "SUB",
	OpMUL: "MUL", OpDIV: "DIV", OpLSL: "LSL", OpLSR: "LSR",
	OpASR: "ASR", OpAND: "AND", OpOR: "OR", OpXOR: "XOR",
}

// String renders the opcode mnemonic, or "???" for values beyond the 32
// defined slots (decode never produces those; this is for disassembly of
// raw bytes).
func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	return "???"
}

func (o Opcode) isCall() bool {
	switch o {
	case OpCL, OpCZ, OpCC, OpCO, OpCN:
		return true
	}
	return false
}

// branchFlag returns the flag a conditional opcode tests. Every conditional
// opcode branches when that flag is set (Jx/Cx means "flag set").
func (o Opcode) branchFlag() Flags {
	switch o {
	case OpJZ, OpCZ:
		return FlagZ
	case OpJC, OpCC:
		return FlagC
	case OpJO, OpCO:
		return FlagO
	case OpJN, OpCN:
		return FlagN
	}
	return 0
}

// flowControlFamily reports whether the opcode belongs to the single-
// operand flow-control group (JP/CL and the eight conditional variants).
func (o Opcode) flowControlFamily() bool {
	switch o {
	case OpJP, OpCL, OpJZ, OpCZ, OpJC, OpCC, OpJO, OpCO, OpJN, OpCN:
		return true
	}
	return false
}

// oneOperandALU is NOT/INC/DEC/IND/DED: instructions that read and write
// back exactly one addressed location.
func (o Opcode) oneOperandALU() bool {
	switch o {
	case OpNOT, OpINC, OpDEC, OpIND, OpDED:
		return true
	}
	return false
}

// twoOperandALU is MV/CMP/TST/ADD/SUB/MUL/DIV/LSL/LSR/ASR/AND/OR/XOR: the
// instructions whose addressing mode must be one of the nine two-operand
// combinations.
func (o Opcode) twoOperandALU() bool {
	switch o {
	case OpMV, OpCMP, OpTST, OpADD, OpSUB, OpMUL, OpDIV, OpLSL, OpLSR, OpASR, OpAND, OpOR, OpXOR:
		return true
	}
	return false
}

// voidOnly is NOP/INT/RTS/RTI: instructions with no addressed operand at
// all, valid only with AM_VOID.
func (o Opcode) voidOnly() bool {
	switch o {
	case OpNOP, OpINT, OpRTS, OpRTI:
		return true
	}
	return false
}
