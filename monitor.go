//go:build !headless

// monitor.go - interactive single-character terminal monitor: raw-mode
// stdin, step/disassemble/breakpoint commands, with breakpoint conditions
// scripted in Lua rather than a bespoke condition mini-language.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import (
	"bufio"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
	"golang.design/x/clipboard"
	"golang.org/x/term"

	"github.com/intuition-retro/fantasycore/assembler"
)

// monitorCommands is printed once at startup.
const monitorCommands = "[s]tep  [r]un-to-breakpoint  [d]isassemble  [c]opy  [q]uit\n"

// runMonitor drives an interactive step/disassemble/breakpoint session
// against sys over raw stdin. breakExpr, if non-empty, is a Lua expression
// evaluated after every stepped instruction during a run; it sees pc(),
// reg(i) and peek(addr) as globals and stops the run when it evaluates
// truthy. runMonitor blocks until the user quits.
func runMonitor(sys *System, breakExpr string) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monitor: raw mode unavailable, falling back to line mode: %v\n", err)
	} else {
		defer term.Restore(fd, oldState)
	}

	clipboardOK := clipboard.Init() == nil

	L := lua.NewState()
	defer L.Close()
	installLuaBindings(L, sys)

	fmt.Fprint(os.Stderr, monitorCommands)
	reader := bufio.NewReader(os.Stdin)
	lastDisasm := ""

	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case 'q', 'Q', 3: // 3 = Ctrl-C
			return
		case 's', 'S', ' ':
			sys.CPU.StepInstruction()
			lastDisasm = disasmAt(sys)
			fmt.Fprintf(os.Stderr, "%s\n", lastDisasm)
		case 'd', 'D':
			lastDisasm = disasmAt(sys)
			fmt.Fprintf(os.Stderr, "%s\n", lastDisasm)
		case 'c', 'C':
			if clipboardOK && lastDisasm != "" {
				clipboard.Write(clipboard.FmtText, []byte(lastDisasm))
			}
		case 'r', 'R':
			runUntilBreak(sys, L, breakExpr)
		}
	}
}

func disasmAt(sys *System) string {
	var buf [4]byte
	for i := range buf {
		buf[i] = sys.MMU.ReadByte(sys.CPU.P + uint16(i))
	}
	inst, err := assembler.Disassemble(buf[:], 0)
	if err != nil {
		return fmt.Sprintf("%04X: ???", sys.CPU.P)
	}
	return fmt.Sprintf("%04X: %s", sys.CPU.P, inst.Text)
}

// runUntilBreak steps sys until breakExpr (if any) evaluates truthy, or a
// generous step ceiling is hit to guarantee the monitor always gets control
// back even against a runaway program.
func runUntilBreak(sys *System, L *lua.LState, breakExpr string) {
	const maxSteps = 10_000_000
	for i := 0; i < maxSteps; i++ {
		sys.CPU.StepInstruction()
		if breakExpr == "" {
			continue
		}
		if err := L.DoString("return (" + breakExpr + ")"); err != nil {
			fmt.Fprintf(os.Stderr, "monitor: breakpoint expression error: %v\n", err)
			return
		}
		ret := L.Get(-1)
		L.Pop(1)
		if lua.LVAsBool(ret) {
			fmt.Fprintf(os.Stderr, "break: %s\n", disasmAt(sys))
			return
		}
	}
}

// installLuaBindings exposes pc(), reg(i) and peek(addr) as Lua globals
// reading live CPU/MMU state.
func installLuaBindings(L *lua.LState, sys *System) {
	L.SetGlobal("pc", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(sys.CPU.P))
		return 1
	}))
	L.SetGlobal("reg", L.NewFunction(func(L *lua.LState) int {
		i := L.CheckInt(1)
		if i < 0 || i > 5 {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(sys.CPU.R[i]))
		return 1
	}))
	L.SetGlobal("peek", L.NewFunction(func(L *lua.LState) int {
		addr := L.CheckInt(1)
		L.Push(lua.LNumber(sys.MMU.ReadByte(uint16(addr))))
		return 1
	}))
}
