// sequencer.go - fantasycore cycle sequencer

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

// StepCycle advances the sequencer by exactly one bus cycle. A full
// instruction spans T0 through T1, T2 or T3 depending on addressing mode, plus
// any cycles a handler requests beyond that (CL/RTS/RTI/INT and indirect
// flow control).
func (c *CPU) StepCycle() {
	if c.cycle == 0 {
		if c.extra > 0 {
			c.extra--
			return
		}
		if c.pendingIRQ && !c.F.Has(FlagI) {
			c.injectIRQ()
			return
		}
		c.fetchT0()
		return
	}
	switch c.cycle {
	case 1:
		c.execT1()
	case 2:
		c.execT2()
	case 3:
		c.execT3()
	}
}

// injectIRQ performs the synthetic INT cycle sequence for an asserted
// interrupt: push P, push F, set I, load P from the pending vector. An
// IRQ is never taken mid-instruction because this only runs from the
// cycle==0 branch of StepCycle, i.e. at an instruction boundary.
func (c *CPU) injectIRQ() {
	c.pushWord(c.P)
	c.pushWord(uint16(c.F.masked()))
	c.F.set(FlagI, true)
	c.P = c.mmu.ReadWord(c.pendingVector)
	c.pendingIRQ = false
	c.extra = 1
}

func (c *CPU) fetchT0() {
	c.pcAtFetch = c.P
	c.ib0 = c.mmu.ReadByte(c.P)
	c.ib1 = c.mmu.ReadByte(c.P + 1)
	c.P += 2

	inst := Decode(c.ib0, c.ib1)
	if !validOpcode(inst.Opcode) {
		c.diag(c.pcAtFetch, "invalid opcode")
		inst = Instruction{Opcode: OpNOP, Mode: AM_VOID}
	} else if !validModeFor(inst.Opcode, inst.Mode) {
		c.diag(c.pcAtFetch, "invalid addressing mode for opcode")
		inst = Instruction{Opcode: OpNOP, Mode: AM_VOID}
	}
	c.inst = inst
	c.store = nil
	c.cycle = 1
}

func (c *CPU) execT1() {
	m := c.inst.Mode
	switch {
	case m.isVoid():
		extra := c.dispatch()
		c.finish(extra)
	case m.isDROnly():
		c.op1 = regOperand(c.inst.RX)
		c.op2 = regOperand(c.inst.RY)
		extra := c.dispatch()
		c.finish(extra)
	default:
		if m.hasImmediateByte() {
			c.db0 = c.mmu.ReadByte(c.P)
			c.P++
		} else if m.hasImmediateWord() {
			c.db0 = c.mmu.ReadByte(c.P)
			c.db1 = c.mmu.ReadByte(c.P + 1)
			c.P += 2
		}
		if m.isSrcIndirect() {
			c.op2 = memOperandFor(c.R[c.inst.RY], c.inst.Size)
		}
		c.cycle = 2
	}
}

func (c *CPU) execT2() {
	c.resolveOperandsT2()
	extra := c.dispatch()
	if c.store != nil {
		c.cycle = 3
		c.extra = extra
		return
	}
	c.finish(extra)
}

func (c *CPU) execT3() {
	if c.store != nil {
		c.store.op.write(c, c.store.size, c.store.val)
	}
	extra := c.extra
	c.extra = 0
	c.finish(extra)
}

func (c *CPU) finish(extra int) {
	c.store = nil
	c.cycle = 0
	c.extra = extra
}

// resolveOperandsT2 builds whichever operand(s) weren't already bound at
// T1: everything for one-operand modes, and the not-yet-indirect-resolved
// half of a two-operand mode (destination dereferencing happens here,
// after source dereferencing at T1, per the tie-break rule).
func (c *CPU) resolveOperandsT2() {
	m := c.inst.Mode
	if m.isOneOperand() {
		c.op1 = c.buildOperand(m, c.inst.RX, true)
		return
	}
	if !m.isSrcIndirect() {
		c.op2 = c.buildOperand(m, c.inst.RY, false)
	}
	c.op1 = c.buildOperand(m, c.inst.RX, true)
}

// buildOperand constructs the operand for one "half" of an addressing
// mode. isOp1 distinguishes which half for the combinations where the two
// halves use different mechanisms (e.g. IR_DR: op1 is register-indirect,
// op2 is a plain register).
func (c *CPU) buildOperand(m AddressingMode, reg byte, isOp1 bool) Operand {
	switch m {
	case AM_DR:
		return regOperand(reg)
	case AM_IR:
		return memOperandFor(c.R[reg], c.inst.Size)
	case AM_DB:
		return imm8Operand(c.db0)
	case AM_IB:
		return memOperandFor(uint16(c.db0), c.inst.Size)
	case AM_DW:
		return imm16Operand(c.immWord())
	case AM_IW:
		return memOperandFor(c.immWord(), c.inst.Size)
	case AM_DR_DR:
		return regOperand(reg)
	case AM_DR_IR:
		if isOp1 {
			return regOperand(reg)
		}
		return memOperandFor(c.R[reg], c.inst.Size)
	case AM_IR_DR:
		if isOp1 {
			return memOperandFor(c.R[reg], c.inst.Size)
		}
		return regOperand(reg)
	case AM_DR_DB:
		if isOp1 {
			return regOperand(reg)
		}
		return imm8Operand(c.db0)
	case AM_DR_IB:
		if isOp1 {
			return regOperand(reg)
		}
		return memOperandFor(uint16(c.db0), c.inst.Size)
	case AM_IB_DR:
		if isOp1 {
			return memOperandFor(uint16(c.db0), c.inst.Size)
		}
		return regOperand(reg)
	case AM_DR_DW:
		if isOp1 {
			return regOperand(reg)
		}
		return imm16Operand(c.immWord())
	case AM_DR_IW:
		if isOp1 {
			return regOperand(reg)
		}
		return memOperandFor(c.immWord(), c.inst.Size)
	case AM_IW_DR:
		if isOp1 {
			return memOperandFor(c.immWord(), c.inst.Size)
		}
		return regOperand(reg)
	}
	return Operand{}
}

func memOperandFor(addr uint16, size OperandSize) Operand {
	if size == Size8 {
		return memByteOperand(addr)
	}
	return memWordOperand(addr)
}

func (c *CPU) immWord() uint16 { return uint16(c.db0) | uint16(c.db1)<<8 }

func (c *CPU) pushWord(v uint16) {
	c.mmu.WriteWord(c.S, v)
	c.S -= 2
}

func (c *CPU) popWord() uint16 {
	c.S += 2
	return c.mmu.ReadWord(c.S)
}
