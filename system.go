// system.go - wires CPU, MMU and HRC into one machine

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

// System owns one instance of the machine core: CPU, MMU and HRC. It resolves the
// construction-order cycle between them: the MMU's HRC control/status
// window needs an *HRC, and the HRC needs the *CPU it raises an IRQ
// against, which in turn needs the *MMU it reads/writes through.
type System struct {
	CPU *CPU
	MMU *MMU
	HRC *HRC
}

// NewSystem builds a System with vpu/apu/pad/serial delegated to the MMU's
// matching MMIO windows (any may be nil; an unconnected window reads zero
// and drops writes). diag defaults to defaultDiagnostics().
func NewSystem(vpu, apu, pad, serial MMIODevice, diag Diagnostics) *System {
	if diag == nil {
		diag = defaultDiagnostics()
	}
	cpu := &CPU{diag: diag}
	hrc := NewHRC(cpu)
	mmu := NewMMU(vpu, apu, pad, serial, hrc, diag)
	cpu.mmu = mmu
	return &System{CPU: cpu, MMU: mmu, HRC: hrc}
}

// Reset resets the MMU (clearing fixed RAM and swap-bank selection) then
// the CPU (which reads the reset vector the MMU reset left intact).
func (s *System) Reset() {
	s.MMU.Reset()
	s.CPU.Reset()
}
