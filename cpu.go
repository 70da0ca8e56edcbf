// cpu.go - fantasycore CPU façade and register file

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

const (
	vectorIRQAddr     uint16 = 0xFFF8
	vectorDivZeroAddr uint16 = 0xFFFC
	vectorResetAddr   uint16 = 0xFFFE
)

const numRegisters = 6

// pendingStore holds a write deferred to the sequencer's T3 cycle, for
// instructions whose destination is memory.
type pendingStore struct {
	op   Operand
	size OperandSize
	val  uint16
}

// CPU owns the register file, the current-instruction scratch area and
// the cycle sequencer's state machine. It borrows the MMU for every bus
// access; nothing here is shared across threads.
type CPU struct {
	R [numRegisters]uint16
	S uint16
	P uint16
	F Flags

	mmu  *MMU
	diag Diagnostics

	// current-instruction scratch, part of the machine state: it must
	// survive across StepCycle calls until the instruction retires.
	ib0, ib1, db0, db1 byte
	inst               Instruction
	op1, op2           Operand
	store              *pendingStore
	cycle              int
	extra              int
	pcAtFetch          uint16

	pendingIRQ    bool
	pendingVector uint16
}

// NewCPU constructs a CPU wired to mmu. Diagnostics defaults to
// defaultDiagnostics() when diag is nil.
func NewCPU(mmu *MMU, diag Diagnostics) *CPU {
	if diag == nil {
		diag = defaultDiagnostics()
	}
	return &CPU{mmu: mmu, diag: diag}
}

// Reset zeroes the register file, loads P from the reset vector, and
// clears any pending interrupt and in-flight cycle state.
func (c *CPU) Reset() {
	for i := range c.R {
		c.R[i] = 0
	}
	c.S = 0
	c.F = 0
	c.cycle = 0
	c.extra = 0
	c.store = nil
	c.pendingIRQ = false
	c.pendingVector = 0
	c.P = c.mmu.ReadWord(vectorResetAddr)
}

// RequestIRQ latches an edge-triggered interrupt request carrying the
// vector to service it from. A second request before the first is
// serviced overwrites the pending vector: there is only one pending-IRQ
// slot, modelling a single interrupt line.
func (c *CPU) RequestIRQ(vector uint16) {
	c.pendingIRQ = true
	c.pendingVector = vector
}

// StepInstruction drives StepCycle until the sequencer returns to T0,
// i.e. until a full instruction (including any handler-extended cycles)
// has retired, and reports how many cycles that took.
func (c *CPU) StepInstruction() int {
	n := 0
	for {
		c.StepCycle()
		n++
		if c.cycle == 0 && c.extra == 0 {
			return n
		}
	}
}
