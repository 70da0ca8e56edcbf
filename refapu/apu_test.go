package refapu

import "testing"

func TestControlRegisterStartsAndStopsPlayback(t *testing.T) {
	a := New(nil)
	a.WriteByte(regSampleLenLo, 4)
	a.WriteByte(regVolume, 255)
	a.WriteByte(regControl, 1)
	if !a.Playing() {
		t.Fatal("APU not playing after CONTROL=1")
	}
	for i := 0; i < 4; i++ {
		a.Step()
	}
	if a.Playing() {
		t.Fatal("APU still playing after sampleLen samples were stepped")
	}
}

func TestStepExpandsDPCMBytesToSamples(t *testing.T) {
	source := []byte{255, 0, 128}
	a := New(func(addr uint16) byte { return source[addr] })
	a.WriteByte(regSampleLenLo, 3)
	a.WriteByte(regVolume, 255)
	a.WriteByte(regControl, 1)

	a.Step()
	if got := a.ReadSample(); got <= 0 {
		t.Fatalf("sample for byte 255 = %f, want > 0", got)
	}
	a.Step()
	if got := a.ReadSample(); got >= 0 {
		t.Fatalf("sample for byte 0 = %f, want < 0", got)
	}
}

func TestReadSampleOnEmptyRingReturnsZero(t *testing.T) {
	a := New(nil)
	if got := a.ReadSample(); got != 0 {
		t.Fatalf("ReadSample on empty ring = %f, want 0", got)
	}
}

func TestSamplePointerRegistersRoundTrip(t *testing.T) {
	a := New(nil)
	a.WriteByte(regSamplePtrLo, 0x34)
	a.WriteByte(regSamplePtrHi, 0x12)
	if a.samplePtr != 0x1234 {
		t.Fatalf("samplePtr = 0x%04X, want 0x1234", a.samplePtr)
	}
	if a.ReadByte(regSamplePtrLo) != 0x34 || a.ReadByte(regSamplePtrHi) != 0x12 {
		t.Fatal("sample pointer readback mismatch")
	}
}
