// pad.go - fantasycore controller pad and serial MMIO devices
//
// The pad device is a pair of latched, read-only button bitfields (one per
// controller port) and the serial register is a single-byte FIFO UART
// stub; together they fill the 0xFFF0..0xFFF8 window, delegated by the MMU
// the same way as the VPU/APU windows and usable without them.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import "sync"

// PadButton bits, latched into one of PadDevice's ports by Latch.
type PadButton uint16

const (
	PadUp PadButton = 1 << iota
	PadDown
	PadLeft
	PadRight
	PadA
	PadB
	PadStart
	PadSelect
)

// PadDevice is a 4-byte read-only MMIO window exposing two controller
// ports: pad 1's latched button bitfield at offsets 0-1 and pad 2's at
// offsets 2-3, each little-endian. Writes are dropped: the pads have no
// host-writable registers.
type PadDevice struct {
	mu    sync.Mutex
	state [2]uint16
}

// NewPadDevice returns a pad pair with no buttons held.
func NewPadDevice() *PadDevice { return &PadDevice{} }

// Latch atomically replaces the button bitfield port (0 or 1) exposes
// until the next Latch call; other port numbers are ignored. The host
// adapter calls this once per frame/tick; the CPU never sees a state that
// changes mid-read.
func (p *PadDevice) Latch(port int, buttons PadButton) {
	if port < 0 || port >= len(p.state) {
		return
	}
	p.mu.Lock()
	p.state[port] = uint16(buttons)
	p.mu.Unlock()
}

func (p *PadDevice) ReadByte(offset uint16) byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(offset) >= 2*len(p.state) {
		return 0
	}
	v := p.state[offset/2]
	if offset%2 == 1 {
		return byte(v >> 8)
	}
	return byte(v)
}

func (p *PadDevice) WriteByte(offset uint16, v byte) {}

const serialRingSize = 256

// SerialDevice is a 4-byte MMIO window: offset 0 is a status register
// (bit 0 input-available, bit 1 output-ready, always set), offset 1 is the
// data register (reading dequeues a received byte, writing enqueues a
// byte for DrainTransmitted to drain), offsets 2-3 are reserved.
type SerialDevice struct {
	mu sync.Mutex

	in      [serialRingSize]byte
	inHead  int
	inTail  int
	inLen   int

	out []byte

	onTransmit func(byte)
}

// NewSerialDevice returns an empty serial port.
func NewSerialDevice() *SerialDevice {
	return &SerialDevice{out: make([]byte, 0, 64)}
}

// OnTransmit registers a callback invoked (outside the device lock) for
// every byte the CPU writes to the data register. When unset, transmitted
// bytes accumulate in an internal buffer drained by DrainTransmitted.
func (s *SerialDevice) OnTransmit(fn func(byte)) {
	s.mu.Lock()
	s.onTransmit = fn
	s.mu.Unlock()
}

// EnqueueReceived makes b available to the CPU as the next byte read from
// the data register. Bytes beyond the ring's capacity are dropped.
func (s *SerialDevice) EnqueueReceived(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inLen >= len(s.in) {
		return
	}
	s.in[s.inTail] = b
	s.inTail = (s.inTail + 1) % len(s.in)
	s.inLen++
}

// DrainTransmitted returns and clears bytes the CPU has written to the
// data register since the last call.
func (s *SerialDevice) DrainTransmitted() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := append([]byte(nil), s.out...)
	s.out = s.out[:0]
	return b
}

const (
	serialOffsetStatus = 0
	serialOffsetData   = 1
)

func (s *SerialDevice) ReadByte(offset uint16) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch offset {
	case serialOffsetStatus:
		var status byte
		if s.inLen > 0 {
			status |= 1
		}
		status |= 2
		return status
	case serialOffsetData:
		if s.inLen == 0 {
			return 0
		}
		b := s.in[s.inHead]
		s.inHead = (s.inHead + 1) % len(s.in)
		s.inLen--
		return b
	default:
		return 0
	}
}

func (s *SerialDevice) WriteByte(offset uint16, v byte) {
	if offset != serialOffsetData {
		return
	}
	var fn func(byte)
	s.mu.Lock()
	if s.onTransmit != nil {
		fn = s.onTransmit
	} else {
		s.out = append(s.out, v)
	}
	s.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}
