// mmu.go - fantasycore memory management unit

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	romFixedSize  = 16 * 1024
	romBankSize   = 16 * 1024
	ramFixedSize  = 8 * 1024
	ramBankSize   = 8 * 1024
	tileBankSize  = 8 * 1024
	dpcmBankSize  = 2 * 1024
	cartFixedSize = 256

	addrROMFixedStart  = 0x0000
	addrROMSwapStart   = 0x4000
	addrRAMFixedStart  = 0x8000
	addrRAMSwapStart   = 0xA000
	addrTileSwapStart  = 0xC000
	addrVPUStart       = 0xE000
	addrAPUStart       = 0xEC00
	addrDPCMStart      = 0xF000
	addrCartFixedStart = 0xFE00
	addrBankSelStart   = 0xFFE0
	addrHRCStart       = 0xFFE2
	addrPadStart       = 0xFFF0
	addrSerialStart    = 0xFFF4
	addrVectorsStart   = 0xFFF8

	addrBankSelEnd   = 0xFFE2
	addrHRCEnd       = 0xFFE6
	addrVPUEnd       = addrAPUStart
	addrAPUEnd       = addrDPCMStart
	addrCartFixedEnd = addrCartFixedStart + cartFixedSize
	addrPadEnd       = addrSerialStart
	addrSerialEnd    = addrVectorsStart

	addrROMSwapBank = 0xFFE0
	addrRAMSwapBank = 0xFFE1
)

// BankKind selects which swappable bank family a select_bank call targets.
type BankKind byte

const (
	BankROMSwap BankKind = iota
	BankRAMSwap
	BankTileSwap
	BankDPCMSwap
)

// MMIODevice is the byte-granular read/write callback pair the MMU
// delegates a window to. Addressing is window-relative, 0-based within
// the device's own region.
type MMIODevice interface {
	ReadByte(offset uint16) byte
	WriteByte(offset uint16, v byte)
}

// MMU decodes the 16-bit address space into banked ROM/RAM/tile/DPCM
// storage plus delegated MMIO windows. It owns every byte of backing
// storage outright; VPU/APU/pad/serial/HRC collaborators are injected at
// construction, never reached through global state.
type MMU struct {
	romFixed []byte
	romBanks [][]byte
	romSwap  int

	ramFixed []byte
	ramBanks [][]byte
	ramSwap  int

	tileBanks [][]byte
	tileSwap  int

	dpcmBanks [][]byte
	dpcmSwap  int

	cartFixed []byte

	vectors [8]byte

	vpu    MMIODevice
	apu    MMIODevice
	pad    MMIODevice
	serial MMIODevice
	hrc    *HRC

	diag Diagnostics
}

// NewMMU builds an MMU with the fixed regions already allocated and zeroed,
// and no swappable banks yet (LoadCartridge or LoadBanks installs those).
// VPU/APU/pad/serial may be nil; reads/writes to their windows then behave
// as unmapped (return 0 / drop) rather than panicking.
func NewMMU(vpu, apu, pad, serial MMIODevice, hrc *HRC, diag Diagnostics) *MMU {
	return &MMU{
		romFixed:  make([]byte, romFixedSize),
		ramFixed:  make([]byte, ramFixedSize),
		cartFixed: make([]byte, cartFixedSize),
		vpu:       vpu,
		apu:       apu,
		pad:       pad,
		serial:    serial,
		hrc:       hrc,
		diag:      diag,
	}
}

// Reset clears fixed RAM, the RAM swap banks and the swap-bank indices.
// Fixed ROM, the ROM/tile/DPCM swap-bank storage and the vectors are
// cartridge-loaded state and survive a reset.
func (m *MMU) Reset() {
	for i := range m.ramFixed {
		m.ramFixed[i] = 0
	}
	m.romSwap = 0
	m.ramSwap = 0
	m.tileSwap = 0
	m.dpcmSwap = 0
	for _, bank := range m.ramBanks {
		for i := range bank {
			bank[i] = 0
		}
	}
}

// LoadBanks installs the swappable bank sets (ROM/RAM/tile/DPCM) supplied
// by a cartridge image, validating each bank's declared size concurrently
// across an errgroup; the bank sets of a real cartridge are independent
// and this is purely a validation pass, so there is no ordering
// requirement between them.
func (m *MMU) LoadBanks(ctx context.Context, rom, ram, tile, dpcm [][]byte) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return validateBanks(rom, romBankSize) })
	g.Go(func() error { return validateBanks(ram, ramBankSize) })
	g.Go(func() error { return validateBanks(tile, tileBankSize) })
	g.Go(func() error { return validateBanks(dpcm, dpcmBankSize) })
	if err := g.Wait(); err != nil {
		return err
	}
	m.romBanks, m.ramBanks, m.tileBanks, m.dpcmBanks = rom, ram, tile, dpcm
	m.romSwap, m.ramSwap, m.tileSwap, m.dpcmSwap = 0, 0, 0, 0
	return nil
}

func validateBanks(banks [][]byte, want int) error {
	for i, b := range banks {
		if len(b) != want {
			return &bankSizeError{index: i, want: want, got: len(b)}
		}
	}
	return nil
}

type bankSizeError struct {
	index, want, got int
}

func (e *bankSizeError) Error() string {
	return "fantasycore: bank has wrong size"
}

// SelectBank clamps index modulo the declared bank count and switches the
// active bank. A kind with zero banks ignores the write.
func (m *MMU) SelectBank(kind BankKind, index int) {
	switch kind {
	case BankROMSwap:
		if n := len(m.romBanks); n > 0 {
			m.romSwap = index % n
		}
	case BankRAMSwap:
		if n := len(m.ramBanks); n > 0 {
			m.ramSwap = index % n
		}
	case BankTileSwap:
		if n := len(m.tileBanks); n > 0 {
			m.tileSwap = index % n
		}
	case BankDPCMSwap:
		if n := len(m.dpcmBanks); n > 0 {
			m.dpcmSwap = index % n
		}
	}
}

// ReadByte dispatches a single byte read across the address map.
func (m *MMU) ReadByte(addr uint16) byte {
	switch {
	case addr < addrROMSwapStart:
		return m.romFixed[addr-addrROMFixedStart]
	case addr < addrRAMFixedStart:
		return m.bankByte(m.romBanks, m.romSwap, addr-addrROMSwapStart)
	case addr < addrRAMSwapStart:
		return m.ramFixed[addr-addrRAMFixedStart]
	case addr < addrTileSwapStart:
		return m.bankByte(m.ramBanks, m.ramSwap, addr-addrRAMSwapStart)
	case addr < addrVPUStart:
		return m.bankByte(m.tileBanks, m.tileSwap, addr-addrTileSwapStart)
	case addr < addrAPUEnd && addr >= addrVPUStart:
		return m.delegateRead(addr)
	case addr < addrDPCMStart+dpcmBankSize && addr >= addrDPCMStart:
		return m.bankByte(m.dpcmBanks, m.dpcmSwap, addr-addrDPCMStart)
	case addr >= addrCartFixedStart && addr < addrCartFixedEnd:
		return m.cartFixed[addr-addrCartFixedStart]
	case addr >= addrBankSelStart && addr < addrBankSelEnd:
		return 0 // write-only
	case addr >= addrHRCStart && addr < addrHRCEnd:
		return m.readHRC(addr)
	case addr >= addrPadStart && addr < addrPadEnd:
		return m.delegateRead(addr)
	case addr >= addrSerialStart && addr < addrSerialEnd:
		return m.delegateRead(addr)
	case addr >= addrVectorsStart:
		return m.vectors[addr-addrVectorsStart]
	default:
		return 0
	}
}

// WriteByte dispatches a single byte write across the address map. Writes
// to read-only ROM regions are silently dropped.
func (m *MMU) WriteByte(addr uint16, v byte) {
	switch {
	case addr < addrRAMFixedStart:
		return // ROM fixed/swap: read-only
	case addr < addrRAMSwapStart:
		m.ramFixed[addr-addrRAMFixedStart] = v
	case addr < addrTileSwapStart:
		m.writeBankByte(m.ramBanks, m.ramSwap, addr-addrRAMSwapStart, v)
	case addr < addrVPUStart:
		m.writeBankByte(m.tileBanks, m.tileSwap, addr-addrTileSwapStart, v)
		if m.vpu != nil {
			m.vpu.WriteByte(addr-addrTileSwapStart, v)
		}
	case addr < addrAPUEnd && addr >= addrVPUStart:
		m.delegateWrite(addr, v)
	case addr < addrDPCMStart+dpcmBankSize && addr >= addrDPCMStart:
		m.writeBankByte(m.dpcmBanks, m.dpcmSwap, addr-addrDPCMStart, v)
	case addr >= addrCartFixedStart && addr < addrCartFixedEnd:
		return // cartridge-fixed page is read-only from the running CPU
	case addr == addrROMSwapBank:
		m.SelectBank(BankROMSwap, int(v))
	case addr == addrRAMSwapBank:
		m.SelectBank(BankRAMSwap, int(v))
	case addr >= addrHRCStart && addr < addrHRCEnd:
		m.writeHRC(addr, v)
	case addr >= addrPadStart && addr < addrPadEnd:
		m.delegateWrite(addr, v)
	case addr >= addrSerialStart && addr < addrSerialEnd:
		m.delegateWrite(addr, v)
	case addr >= addrVectorsStart:
		// The vector table is ordinary writable storage: a program that
		// parks its stack at the top of the address space pushes through
		// this window, and the cartridge-installed vectors are simply its
		// initial contents.
		m.vectors[addr-addrVectorsStart] = v
	default:
		return // unmapped gaps: writes dropped
	}
}

// ReadWord reads a little-endian word: low byte at addr, high at addr+1.
// An access straddling a region boundary dispatches as two independent
// byte reads.
func (m *MMU) ReadWord(addr uint16) uint16 {
	lo := m.ReadByte(addr)
	hi := m.ReadByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// WriteWord writes a little-endian word, low byte first.
func (m *MMU) WriteWord(addr uint16, v uint16) {
	m.WriteByte(addr, byte(v))
	m.WriteByte(addr+1, byte(v>>8))
}

func (m *MMU) bankByte(banks [][]byte, active int, offset uint16) byte {
	if active >= len(banks) {
		return 0
	}
	return banks[active][offset]
}

func (m *MMU) writeBankByte(banks [][]byte, active int, offset uint16, v byte) {
	if active >= len(banks) {
		return
	}
	banks[active][offset] = v
}

func (m *MMU) delegateRead(addr uint16) byte {
	var dev MMIODevice
	var base uint16
	switch {
	case addr >= addrVPUStart && addr < addrVPUEnd:
		dev, base = m.vpu, addrVPUStart
	case addr >= addrAPUStart && addr < addrAPUEnd:
		dev, base = m.apu, addrAPUStart
	case addr >= addrPadStart && addr < addrPadEnd:
		dev, base = m.pad, addrPadStart
	case addr >= addrSerialStart && addr < addrSerialEnd:
		dev, base = m.serial, addrSerialStart
	}
	if dev == nil {
		return 0
	}
	return dev.ReadByte(addr - base)
}

func (m *MMU) delegateWrite(addr uint16, v byte) {
	var dev MMIODevice
	var base uint16
	switch {
	case addr >= addrVPUStart && addr < addrVPUEnd:
		dev, base = m.vpu, addrVPUStart
	case addr >= addrAPUStart && addr < addrAPUEnd:
		dev, base = m.apu, addrAPUStart
	case addr >= addrPadStart && addr < addrPadEnd:
		dev, base = m.pad, addrPadStart
	case addr >= addrSerialStart && addr < addrSerialEnd:
		dev, base = m.serial, addrSerialStart
	}
	if dev == nil {
		return
	}
	dev.WriteByte(addr-base, v)
}

func (m *MMU) readHRC(addr uint16) byte {
	if addr == addrHRCStart {
		return byte(m.hrc.Rate())
	}
	return 0
}

func (m *MMU) writeHRC(addr uint16, v byte) {
	if addr == addrHRCStart {
		m.hrc.SetType(HRCRate(v & 0x7))
	}
}

// LoadVectors installs the 8-byte interrupt/reset vector table read by
// CPU.Reset and by the IRQ injection path.
func (m *MMU) LoadVectors(v [8]byte) { m.vectors = v }

// Cartridge is the subset of a loaded cartridge image the MMU needs: fixed
// ROM contents, the swappable bank sets, the cartridge-fixed page and the
// vector table. It is deliberately a plain data shape rather than an
// interface back to the cartridge package, keeping the core ignorant of
// how the image was parsed: the MMU owns storage, it does not own loading.
type Cartridge struct {
	ROMFixed  []byte
	ROMBanks  [][]byte
	RAMBanks  [][]byte
	TileBanks [][]byte
	DPCMBanks [][]byte
	CartFixed []byte
	Vectors   [8]byte
}

// LoadCartridge copies a parsed cartridge image into the MMU: fixed ROM and
// the cartridge-fixed page are copied byte-for-byte so the MMU never
// aliases the loader's buffers, the swappable bank sets are installed via
// LoadBanks, and the vector table is installed via LoadVectors.
func (m *MMU) LoadCartridge(ctx context.Context, c Cartridge) error {
	if len(c.ROMFixed) != romFixedSize {
		return &bankSizeError{want: romFixedSize, got: len(c.ROMFixed)}
	}
	if len(c.CartFixed) != cartFixedSize {
		return &bankSizeError{want: cartFixedSize, got: len(c.CartFixed)}
	}
	if err := m.LoadBanks(ctx, c.ROMBanks, c.RAMBanks, c.TileBanks, c.DPCMBanks); err != nil {
		return err
	}
	copy(m.romFixed, c.ROMFixed)
	copy(m.cartFixed, c.CartFixed)
	m.LoadVectors(c.Vectors)
	return nil
}
