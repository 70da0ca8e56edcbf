// Package refvpu is a minimal reference video unit: just enough MMIO
// behaviour to exercise the MMU's tile-bank delegation and give display.go
// something to render. The CPU/MMU core only ever sees it through the
// byte-granular MMIODevice contract; it is wired in by main.go alone.
//
// (c) 2025 - 2026 fantasycore contributors
// https://github.com/intuition-retro/fantasycore
//
// License: GPLv3 or later
package refvpu

const (
	// TileBankSize mirrors the MMU's 8KiB tile swap window (mmu.go's
	// tileBankSize). The VPU keeps its own copy of whatever was last
	// written there so it can composite a frame without reaching back
	// into MMU internals.
	TileBankSize = 8 * 1024

	controlWindowSize = 0xC00 // 0xE000..0xEC00

	// Control register offsets within the VPU's own 0xE000-0xEC00 MMIO
	// window: scroll, palette and enable, collapsed to single bytes for
	// a reference implementation.
	regScrollXLo = 0x00
	regScrollXHi = 0x01
	regScrollYLo = 0x02
	regScrollYHi = 0x03
	regPalette   = 0x04
	regEnable    = 0x05

	tilesPerRow = 32
	tileRows    = 24
	tileSize    = 8
)

// VPU renders a grid of 8x8 1bpp tiles, each byte row of a tile supplying 8
// pixels MSB-first, into an RGBA framebuffer. The tile bank and the control
// registers share one write path because the MMU forwards every tile-swap
// write to VPU.WriteByte using the same window-relative offset it uses for
// the VPU's own control window (mmu.go's delegateWrite/tile-write paths),
// so a reference implementation keeps one backing buffer large enough for
// either. Because the two paths are indistinguishable, a write to offsets
// 0-5 updates the matching control register whichever window it came
// through: the first six bytes of tile 0 alias the scroll, palette and
// enable registers.
type VPU struct {
	mem     [TileBankSize]byte
	scrollX uint16
	scrollY uint16
	palette byte
	enabled bool
}

// New returns a VPU with display disabled until ENABLE is written.
func New() *VPU { return &VPU{} }

// ReadByte implements the MMIODevice contract for the VPU's own control
// window (0xE000-0xEC00). Unmapped offsets read back as zero.
func (v *VPU) ReadByte(offset uint16) byte {
	if offset >= controlWindowSize {
		return 0
	}
	switch offset {
	case regScrollXLo:
		return byte(v.scrollX)
	case regScrollXHi:
		return byte(v.scrollX >> 8)
	case regScrollYLo:
		return byte(v.scrollY)
	case regScrollYHi:
		return byte(v.scrollY >> 8)
	case regPalette:
		return v.palette
	case regEnable:
		if v.enabled {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// WriteByte implements the MMIODevice contract. It is called both for
// writes into the VPU's own control window and (via the MMU's tile-swap
// delegation) for writes into the visible tile bank; see the VPU doc
// comment for why both share v.mem.
func (v *VPU) WriteByte(offset uint16, val byte) {
	if int(offset) >= len(v.mem) {
		return
	}
	v.mem[offset] = val
	switch offset {
	case regScrollXLo:
		v.scrollX = v.scrollX&0xFF00 | uint16(val)
	case regScrollXHi:
		v.scrollX = v.scrollX&0x00FF | uint16(val)<<8
	case regScrollYLo:
		v.scrollY = v.scrollY&0xFF00 | uint16(val)
	case regScrollYHi:
		v.scrollY = v.scrollY&0x00FF | uint16(val)<<8
	case regPalette:
		v.palette = val
	case regEnable:
		v.enabled = val != 0
	}
}

// Enabled reports whether the ENABLE register is set.
func (v *VPU) Enabled() bool { return v.enabled }

// Width and Height are the reference display's fixed tile-grid resolution.
func (v *VPU) Width() int  { return tilesPerRow * tileSize }
func (v *VPU) Height() int { return tileRows * tileSize }

// Composite renders the tile grid into an RGBA framebuffer (4 bytes per
// pixel, row-major, Width()*Height()*4 bytes), scrolled by the configured
// scroll registers and wrapped toroidally. The palette register's low two
// bits pick one of four preset two-tone palettes, and each pixel's tile bit
// picks that palette's foreground or background color (a full 16-color
// palette is more than a reference VPU needs).
func (v *VPU) Composite(frame []byte) {
	w, h := v.Width(), v.Height()
	if len(frame) < w*h*4 {
		return
	}
	fg, bg := paletteColors(v.palette)
	for y := 0; y < h; y++ {
		srcY := (y + int(v.scrollY)) % h
		tileRow := srcY / tileSize
		rowInTile := srcY % tileSize
		for x := 0; x < w; x++ {
			srcX := (x + int(v.scrollX)) % w
			tileCol := srcX / tileSize
			colInTile := srcX % tileSize
			tileIndex := tileRow*tilesPerRow + tileCol
			byteOff := tileIndex*tileSize + rowInTile
			var bit byte
			if byteOff < len(v.mem) {
				bit = (v.mem[byteOff] >> (7 - colInTile)) & 1
			}
			c := bg
			if bit != 0 {
				c = fg
			}
			o := (y*w + x) * 4
			frame[o], frame[o+1], frame[o+2], frame[o+3] = c[0], c[1], c[2], c[3]
		}
	}
}

func paletteColors(p byte) (fg, bg [4]byte) {
	// Four preset two-tone palettes, selected by the low two bits.
	presets := [][2][4]byte{
		{{255, 255, 255, 255}, {0, 0, 0, 255}},
		{{0, 255, 0, 255}, {0, 32, 0, 255}},
		{{255, 200, 0, 255}, {32, 16, 0, 255}},
		{{0, 160, 255, 255}, {0, 0, 48, 255}},
	}
	sel := presets[int(p&0x3)]
	return sel[0], sel[1]
}
