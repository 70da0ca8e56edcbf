package cartridge

import "testing"

func sampleImage() Image {
	img := Image{
		ROMFixed:  make([]byte, RomFixedSize),
		ROMBanks:  [][]byte{make([]byte, RomBankSize), make([]byte, RomBankSize)},
		RAMBanks:  2,
		TileBanks: [][]byte{make([]byte, TileBankSize)},
		DPCMBanks: nil,
		CartFixed: make([]byte, CartFixedSize),
	}
	img.ROMFixed[0] = 0xAA
	img.ROMBanks[1][0] = 0x42
	img.Vectors = [8]byte{0, 0x70, 0, 0, 0, 0, 0x00, 0x80}
	return img
}

func TestEncodeParseRoundTrip(t *testing.T) {
	img := sampleImage()
	data, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.ROMFixed[0] != 0xAA {
		t.Fatalf("ROMFixed[0] = 0x%02X, want 0xAA", got.ROMFixed[0])
	}
	if len(got.ROMBanks) != 2 || got.ROMBanks[1][0] != 0x42 {
		t.Fatalf("ROMBanks not round-tripped: %+v", got.ROMBanks)
	}
	if got.RAMBanks != 2 {
		t.Fatalf("RAMBanks = %d, want 2", got.RAMBanks)
	}
	if len(got.TileBanks) != 1 {
		t.Fatalf("TileBanks = %d, want 1", len(got.TileBanks))
	}
	if len(got.DPCMBanks) != 0 {
		t.Fatalf("DPCMBanks = %d, want 0", len(got.DPCMBanks))
	}
	if ResetVector(got) != 0x8000 {
		t.Fatalf("ResetVector = 0x%04X, want 0x8000", ResetVector(got))
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse([]byte("not a cartridge at all")); err == nil {
		t.Fatal("expected an error for a missing header")
	}
}

func TestParseRejectsTruncatedImage(t *testing.T) {
	img := sampleImage()
	data, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Parse(data[:len(data)-10]); err == nil {
		t.Fatal("expected an error for a truncated image")
	}
}

func TestEncodeRejectsWrongSizedROMFixed(t *testing.T) {
	img := sampleImage()
	img.ROMFixed = img.ROMFixed[:10]
	if _, err := Encode(img); err == nil {
		t.Fatal("expected an error for undersized ROMFixed")
	}
}
