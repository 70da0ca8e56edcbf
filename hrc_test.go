package main

import (
	"testing"
	"time"
)

func TestHRCSetTypeRejectsUnknownRate(t *testing.T) {
	cpu := &CPU{}
	hrc := NewHRC(cpu)
	hrc.SetType(HRCRate(6)) // reserved slot
	if hrc.Rate() != RateDisabled {
		t.Fatalf("Rate() = %v, want RateDisabled", hrc.Rate())
	}
}

func TestHRCDisabledStepIsNoOp(t *testing.T) {
	cpu := &CPU{}
	hrc := NewHRC(cpu)
	hrc.Step()
	if cpu.pendingIRQ {
		t.Fatal("disabled HRC raised an IRQ")
	}
}

func TestHRCFiresAtConfiguredRate(t *testing.T) {
	cpu := &CPU{}
	hrc := NewHRC(cpu)
	base := time.Unix(0, 0)
	cur := base
	hrc.clock = func() time.Time { return cur }

	hrc.SetType(Rate120Hz)

	cur = base.Add(4 * time.Millisecond) // below the ~8.33ms period
	hrc.Step()
	if cpu.pendingIRQ {
		t.Fatal("IRQ raised before the target elapsed_hz was reached")
	}

	cur = base.Add(10 * time.Millisecond)
	hrc.Step()
	if !cpu.pendingIRQ {
		t.Fatal("IRQ not raised once elapsed_hz reached the 120Hz target")
	}
	if cpu.pendingVector != vectorIRQAddr {
		t.Fatalf("pendingVector = 0x%04X, want 0x%04X", cpu.pendingVector, vectorIRQAddr)
	}
}
