//go:build !headless

// display.go - windowed reference display rendering refvpu.VPU's tile-grid
// composite through an ebiten game loop. The status line overlay is drawn
// with golang.org/x/image/font rather than ebiten's built-in debug text
// helper so the glyph rendering stays under our control.

/*
(c) 2025 - 2026 fantasycore contributors
https://github.com/intuition-retro/fantasycore

License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/intuition-retro/fantasycore/refvpu"
)

const (
	displayScale      = 3
	overlayHeight     = 16
	overlayLinePixelY = 11
)

type displayGame struct {
	sys       *System
	vpu       *refvpu.VPU
	frame     []byte
	overlay   *image.RGBA
	overlayEb *ebiten.Image
	face      font.Face
}

// startDisplay opens a window that recomposites the VPU's tile grid every
// frame. The returned stop func blocks until the window closes; the closed
// channel is closed once the window is gone, so the free-run loop can bail
// out instead of stepping a machine nobody is watching.
func startDisplay(sys *System, vpu *refvpu.VPU) (func(), <-chan struct{}, error) {
	w, h := vpu.Width(), vpu.Height()
	g := &displayGame{
		sys:       sys,
		vpu:       vpu,
		frame:     make([]byte, w*h*4),
		overlay:   image.NewRGBA(image.Rect(0, 0, w, overlayHeight)),
		overlayEb: ebiten.NewImage(w, overlayHeight),
		face:      basicfont.Face7x13,
	}

	ebiten.SetWindowSize(w*displayScale, h*displayScale)
	ebiten.SetWindowTitle("fantasycore")
	ebiten.SetWindowResizable(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ebiten.RunGame(g); err != nil {
			fmt.Printf("display: %v\n", err)
		}
	}()

	stop := func() {
		<-done
	}
	return stop, done, nil
}

func (g *displayGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

func (g *displayGame) Draw(screen *ebiten.Image) {
	g.vpu.Composite(g.frame)
	screen.WritePixels(g.frame)
	g.drawStatusOverlay(screen)
}

func (g *displayGame) drawStatusOverlay(screen *ebiten.Image) {
	for i := range g.overlay.Pix {
		g.overlay.Pix[i] = 0
	}
	status := fmt.Sprintf("P=%04X R0=%04X F=%02X", g.sys.CPU.P, g.sys.CPU.R[0], byte(g.sys.CPU.F))
	d := &font.Drawer{
		Dst:  g.overlay,
		Src:  image.NewUniform(color.RGBA{0, 255, 0, 255}),
		Face: g.face,
		Dot:  fixed.P(2, overlayLinePixelY),
	}
	d.DrawString(status)
	g.overlayEb.WritePixels(g.overlay.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(g.vpu.Height()-overlayHeight))
	screen.DrawImage(g.overlayEb, op)
}

func (g *displayGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.vpu.Width(), g.vpu.Height()
}
