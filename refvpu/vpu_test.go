package refvpu

import "testing"

func TestEnableRegisterRoundTrips(t *testing.T) {
	v := New()
	if v.Enabled() {
		t.Fatal("VPU enabled before any write")
	}
	v.WriteByte(regEnable, 1)
	if !v.Enabled() {
		t.Fatal("VPU not enabled after writing ENABLE=1")
	}
	if got := v.ReadByte(regEnable); got != 1 {
		t.Fatalf("ReadByte(ENABLE) = %d, want 1", got)
	}
}

func TestScrollRegistersRoundTrip(t *testing.T) {
	v := New()
	v.WriteByte(regScrollXLo, 0x34)
	v.WriteByte(regScrollXHi, 0x12)
	if v.scrollX != 0x1234 {
		t.Fatalf("scrollX = 0x%04X, want 0x1234", v.scrollX)
	}
	if v.ReadByte(regScrollXLo) != 0x34 || v.ReadByte(regScrollXHi) != 0x12 {
		t.Fatal("scroll register readback mismatch")
	}
}

func TestCompositeSolidTileFillsForeground(t *testing.T) {
	v := New()
	// Tile 1 (offsets 8-15): tile 0's first bytes alias the scroll,
	// palette and enable registers, so writing them would also move the
	// view and switch the palette.
	for i := tileSize; i < 2*tileSize; i++ {
		v.WriteByte(uint16(i), 0xFF) // tile 1, every row fully set
	}
	frame := make([]byte, v.Width()*v.Height()*4)
	v.Composite(frame)
	o := tileSize * 4 // pixel (8,0), tile 1's top-left
	if frame[o] != 255 || frame[o+1] != 255 || frame[o+2] != 255 {
		t.Fatalf("pixel (8,0) = %v, want white foreground", frame[o:o+4])
	}
}

func TestCompositeIgnoresUndersizedBuffer(t *testing.T) {
	v := New()
	small := make([]byte, 3)
	v.Composite(small) // must not panic
	if small[0] != 0 {
		t.Fatal("undersized buffer was written to")
	}
}
