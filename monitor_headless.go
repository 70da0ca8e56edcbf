//go:build headless

// monitor_headless.go - no-op stand-in for monitor.go.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

// runMonitor is a no-op in headless builds: there is no terminal to drive
// interactively. Headless runs are expected to be exercised by main.go's
// own bounded step loop or by tests, not the monitor.
func runMonitor(sys *System, breakExpr string) {}
