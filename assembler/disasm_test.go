package assembler

import "testing"

func TestDisassembleRoundTripsAssembledAdd(t *testing.T) {
	img, err := Assemble("org 0\nadd.w R0, #$2A")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	inst, err := Disassemble(img, 0)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	want := "ADD.w R0, #$2A"
	if inst.Text != want {
		t.Fatalf("Text = %q, want %q", inst.Text, want)
	}
	if inst.Length != 4 {
		t.Fatalf("Length = %d, want 4", inst.Length)
	}
}

func TestDisassembleVoidInstruction(t *testing.T) {
	img, err := Assemble("org 0\nrts")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	inst, err := Disassemble(img, 0)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if inst.Text != "RTS" || inst.Length != 2 {
		t.Fatalf("got %q len %d, want RTS len 2", inst.Text, inst.Length)
	}
}

func TestDisassembleAllStopsAtImageEnd(t *testing.T) {
	img, err := Assemble(`
		org 0
		nop
		rts
	`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	insts := DisassembleAll(img)
	if len(insts) != 2 {
		t.Fatalf("len(insts) = %d, want 2", len(insts))
	}
	if insts[0].Text != "NOP" || insts[1].Text != "RTS" {
		t.Fatalf("insts = %+v", insts)
	}
}

func TestDisassembleRejectsOutOfRangeAddress(t *testing.T) {
	img := []byte{0, 0}
	if _, err := Disassemble(img, 5); err == nil {
		t.Fatal("expected an error for an out-of-range address")
	}
}
