//go:build headless

// display_headless.go - no-op stand-in for display.go.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import "github.com/intuition-retro/fantasycore/refvpu"

// startDisplay is a no-op in headless builds: there is no window, so the
// returned stop func returns immediately and the closed channel is nil
// (never closes; a headless free run is bounded by -steps or runs until
// the process is killed).
func startDisplay(sys *System, vpu *refvpu.VPU) (func(), <-chan struct{}, error) {
	return func() {}, nil, nil
}
