//go:build headless

// audio_playback_headless.go - no-op stand-in for audio_playback.go.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import "github.com/intuition-retro/fantasycore/refapu"

// startAudio is a no-op in headless builds.
func startAudio(apu *refapu.APU) (func(), error) {
	return func() {}, nil
}
