// main.go - fantasycore entry point: wires the System core to the
// reference VPU/APU/pad/serial collaborators and the build-tag-gated
// display/audio/monitor front ends.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/intuition-retro/fantasycore/cartridge"
	"github.com/intuition-retro/fantasycore/refapu"
	"github.com/intuition-retro/fantasycore/refvpu"
)

// stepsPerTick is the outer loop's cadence: how many instructions it
// retires between wall-clock pacing checks, chosen so a -steps run
// finishes promptly without spinning a tight busy loop.
const stepsPerTick = 1000

func main() {
	monitorFlag := flag.Bool("monitor", false, "drop into the interactive monitor instead of free-running")
	breakExpr := flag.String("break", "", "Lua breakpoint expression evaluated by the monitor's [r]un command")
	steps := flag.Int("steps", 0, "in a headless/non-monitor run, stop after this many instructions (0 = run until the window closes)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fantasycore [options] cartridge.fc\n\nRuns a flat fantasycore ROM image.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fantasycore demo.fc\n")
		fmt.Fprintf(os.Stderr, "  fantasycore -monitor -break 'reg(0) == 0x2a' demo.fc\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	img, err := cartridge.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading cartridge: %v\n", err)
		os.Exit(1)
	}

	vpu := refvpu.New()
	apu := refapu.New(nil)
	pad := NewPadDevice()
	serial := NewSerialDevice()

	sys := NewSystem(vpu, apu, pad, serial, nil)
	apu.SetSource(func(addr uint16) byte { return sys.MMU.ReadByte(addrDPCMStart + addr) })

	if err := sys.MMU.LoadCartridge(context.Background(), cartridgeToMMU(img)); err != nil {
		fmt.Fprintf(os.Stderr, "error installing cartridge: %v\n", err)
		os.Exit(1)
	}
	sys.Reset()

	fmt.Printf("fantasycore: loaded %s, reset vector -> P=0x%04X\n", flag.Arg(0), sys.CPU.P)

	stopDisplay, displayClosed, err := startDisplay(sys, vpu)
	if err != nil {
		fmt.Fprintf(os.Stderr, "display: %v\n", err)
		os.Exit(1)
	}
	stopAudio, err := startAudio(apu)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio: %v\n", err)
		os.Exit(1)
	}
	defer stopAudio()

	if *monitorFlag {
		runMonitor(sys, *breakExpr)
		stopDisplay()
		return
	}

	runFree(sys, apu, *steps, displayClosed)
	stopDisplay()
}

// cartridgeToMMU adapts a parsed on-disk cartridge.Image to the MMU's own
// Cartridge shape. The two types stay independent (cartridge.Image is a
// standalone on-disk format, MMU.Cartridge is the core's load contract);
// RAM banks are cartridge-declared only by count, so this is where they
// actually get allocated as zeroed scratch.
func cartridgeToMMU(img cartridge.Image) Cartridge {
	ram := make([][]byte, img.RAMBanks)
	for i := range ram {
		ram[i] = make([]byte, ramBankSize)
	}
	return Cartridge{
		ROMFixed:  img.ROMFixed,
		ROMBanks:  img.ROMBanks,
		RAMBanks:  ram,
		TileBanks: img.TileBanks,
		DPCMBanks: img.DPCMBanks,
		CartFixed: img.CartFixed,
		Vectors:   img.Vectors,
	}
}

// runFree drives the machine without the interactive monitor: the HRC is
// ticked once per instruction boundary and the APU's sample player is
// stepped alongside it, all on one thread. A nonzero steps bounds a headless/CI
// run; zero means "run until the display window closes" (closed is nil in
// headless builds, so a zero-steps headless run spins until killed).
func runFree(sys *System, apu *refapu.APU, steps int, closed <-chan struct{}) {
	n := 0
	last := time.Now()
	for steps == 0 || n < steps {
		select {
		case <-closed:
			return
		default:
		}
		sys.CPU.StepInstruction()
		sys.HRC.Step()
		apu.Step()
		n++
		if n%stepsPerTick == 0 {
			now := time.Now()
			if elapsed := now.Sub(last); elapsed < time.Millisecond {
				time.Sleep(time.Millisecond - elapsed)
			}
			last = time.Now()
		}
	}
}
