// fcdisasm disassembles a flat binary (raw or a cartridge image) into
// fantasycore assembly-like listing text.
//
// (c) 2025 - 2026 fantasycore contributors
// https://github.com/intuition-retro/fantasycore
//
// License: GPLv3 or later
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/intuition-retro/fantasycore/assembler"
	"github.com/intuition-retro/fantasycore/cartridge"
)

func main() {
	cart := flag.Bool("cart", false, "treat the input as a fantasycore cartridge image (disassemble its fixed ROM) rather than a raw binary")
	org := flag.Uint("org", 0, "base address printed alongside each instruction")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fcdisasm [options] input.bin\n\nDisassembles a fantasycore program image.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	img := data
	if *cart {
		parsed, err := cartridge.Parse(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		img = parsed.ROMFixed
	}

	addr := uint(*org)
	for _, inst := range assembler.DisassembleAll(img) {
		fmt.Printf("%04X: %s\n", addr, inst.Text)
		addr += uint(inst.Length)
	}
}
