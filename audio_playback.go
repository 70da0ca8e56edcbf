//go:build !headless

// audio_playback.go - reference APU audio output through an oto.Player.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import (
	"unsafe"

	"github.com/ebitengine/oto/v3"

	"github.com/intuition-retro/fantasycore/refapu"
)

const audioSampleRate = 22050

// apuReader adapts refapu.APU's pull-one-sample-at-a-time interface to
// oto.Player's io.Reader contract.
type apuReader struct {
	apu *refapu.APU
}

func (r apuReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		s := r.apu.ReadSample()
		b := (*[4]byte)(unsafe.Pointer(&s))
		copy(p[i*4:], b[:])
	}
	return n * 4, nil
}

// startAudio opens an oto playback context streaming the APU's ring
// buffer. The returned stop func closes the player.
func startAudio(apu *refapu.APU) (func(), error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audioSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	player := ctx.NewPlayer(apuReader{apu: apu})
	player.Play()

	stop := func() {
		player.Close()
	}
	return stop, nil
}
