// hrc.go - fantasycore high-resolution counter

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import "time"

// HRCRate is the counter's rate selector. Unknown register values decode
// to RateDisabled.
type HRCRate byte

const (
	RateDisabled HRCRate = iota
	Rate60Hz
	Rate120Hz
	Rate240Hz
	Rate480Hz
	Rate960Hz
	rateReserved1
	rateReserved2
)

var hrcRateHz = map[HRCRate]int{
	Rate60Hz:  60,
	Rate120Hz: 120,
	Rate240Hz: 240,
	Rate480Hz: 480,
	Rate960Hz: 960,
}

// cpuFreqHz is the assumed core clock used to convert wall-clock elapsed
// time into the elapsed-hz counter. 4 MHz keeps the per-tick cycle budget
// for a 960 Hz timer comfortably above one instruction.
const cpuFreqHz = 4_000_000

// HRC is a free-running high-resolution counter driven by wall-clock time.
// Its clock source is an injectable func so tests can simulate elapsed
// time deterministically instead of sleeping.
type HRC struct {
	rate HRCRate

	start   time.Time
	current time.Time

	elapsedUs int64
	elapsedHz int64
	countdown int64

	cpu   *CPU
	clock func() time.Time
}

// NewHRC creates a disabled counter attached to cpu, using time.Now as the
// monotonic clock source.
func NewHRC(cpu *CPU) *HRC {
	return &HRC{rate: RateDisabled, cpu: cpu, clock: time.Now}
}

// Rate reports the currently configured rate.
func (h *HRC) Rate() HRCRate { return h.rate }

// SetType accepts only the enumerated rates; anything else (including the
// two reserved slots) maps to RateDisabled.
func (h *HRC) SetType(r HRCRate) {
	if _, ok := hrcRateHz[r]; !ok {
		r = RateDisabled
	}
	h.rate = r
	h.start = h.clock()
	h.current = h.start
	h.elapsedUs = 0
	h.elapsedHz = 0
	h.countdown = 0
}

// Step samples the clock, updates elapsed_us/elapsed_hz, and raises the
// timer IRQ on the CPU once elapsed_hz reaches the target for the
// configured rate, resetting the countdown. A DISABLED counter is a no-op.
func (h *HRC) Step() {
	hz, ok := hrcRateHz[h.rate]
	if !ok {
		return
	}
	now := h.clock()
	h.current = now
	h.elapsedUs = now.Sub(h.start).Microseconds()
	h.elapsedHz = cpuFreqHz * h.elapsedUs / 1_000_000

	target := int64(cpuFreqHz / hz)
	if h.elapsedHz >= target {
		h.cpu.RequestIRQ(vectorIRQAddr)
		h.start = now
		h.elapsedUs = 0
		h.elapsedHz = 0
		h.countdown = target
	}
}
