package assembler

import "testing"

func TestAssembleAddImmediateWord(t *testing.T) {
	img, err := Assemble(`
		org $8000
		add.w R0, #$2A
	`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(img) != 4 {
		t.Fatalf("image length = %d, want 4", len(img))
	}
	op, mode, size, rx, _ := Decode(img[0], img[1])
	if op != OpADD || mode != AM_DR_DW || size != Size16 || rx != 0 {
		t.Fatalf("decoded %v %v %v rx=%d, want ADD DR_DW Size16 rx=0", op, mode, size, rx)
	}
	if imm := int(img[2]) | int(img[3])<<8; imm != 0x2A {
		t.Fatalf("immediate = 0x%X, want 0x2A", imm)
	}
}

func TestAssembleResolvesForwardLabel(t *testing.T) {
	img, err := Assemble(`
		org $8000
		jz target
		nop
	target:
		rts
	`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	_, mode, _, _, _ := Decode(img[0], img[1])
	if mode != AM_DW {
		t.Fatalf("mode = %v, want DW", mode)
	}
	target := int(img[2]) | int(img[3])<<8
	if target != 0x8006 {
		t.Fatalf("target = 0x%X, want 0x8006 (JZ is 4 bytes, NOP is 2)", target)
	}
}

func TestAssembleEquAndDC(t *testing.T) {
	img, err := Assemble(`
		START equ $9000
		org START
		dc.b 1,2,3
		dc.w $1234
	`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{1, 2, 3, 0x34, 0x12}
	if len(img) != len(want) {
		t.Fatalf("image = %v, want %v", img, want)
	}
	for i := range want {
		if img[i] != want[i] {
			t.Fatalf("image[%d] = 0x%02X, want 0x%02X", i, img[i], want[i])
		}
	}
}

func TestAssembleByteSizeUsesDB(t *testing.T) {
	img, err := Assemble(`
		org 0
		add.b R0, #5
	`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(img) != 3 {
		t.Fatalf("image length = %d, want 3 (byte immediate)", len(img))
	}
	_, mode, size, _, _ := Decode(img[0], img[1])
	if mode != AM_DR_DB || size != Size8 {
		t.Fatalf("mode=%v size=%v, want DR_DB Size8", mode, size)
	}
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	if _, err := Assemble("org 0\nBOGUS R0"); err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestAssembleRejectsWrongOperandCount(t *testing.T) {
	if _, err := Assemble("org 0\nadd.w R0"); err == nil {
		t.Fatal("expected an error: ADD needs two operands")
	}
}
