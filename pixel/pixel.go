// Package pixel implements the TGR sprite format's pixel value type: a
// 32-bit RGBA record with 16-bit RGB565 packing and the transparent/shadow
// sentinels shared by the line codec and the player-color table.
package pixel

import "math"

// Pixel is a 4-channel color value. All four channels range over [0, 255].
type Pixel struct {
	R, G, B, A uint8
}

// Transparent is the sentinel never written as a literal pixel; it is
// always expressed through a flag-000 run, a line's transparent_pixels
// prefix, or tail padding.
var Transparent = Pixel{0, 0, 0, 0}

// Shadow is the sentinel for semi-opaque shadow regions; only ever
// expressed through a flag-101 run.
var Shadow = Pixel{0, 0, 0, 0x80}

// FromRGB565 unpacks a little-endian-agnostic 16-bit RGB565 value into an
// opaque (A=255) Pixel.
func FromRGB565(v uint16) Pixel {
	r5 := (v >> 11) & 0x1F
	g6 := (v >> 5) & 0x3F
	b5 := v & 0x1F
	return Pixel{
		R: expand(uint32(r5), 31),
		G: expand(uint32(g6), 63),
		B: expand(uint32(b5), 31),
		A: 255,
	}
}

// ToRGB565 packs the pixel's RGB channels into a 16-bit RGB565 value,
// discarding alpha. It is an exact inverse of FromRGB565 for any uint16.
func (p Pixel) ToRGB565() uint16 {
	r5 := compress(p.R, 31)
	g6 := compress(p.G, 63)
	b5 := compress(p.B, 31)
	return uint16(r5)<<11 | uint16(g6)<<5 | uint16(b5)
}

// WithAlpha returns a copy of p with its alpha channel replaced by the
// 5-bit value a5 expanded to 8 bits.
func (p Pixel) WithAlpha(a5 uint8) Pixel {
	p.A = Expand5(a5)
	return p
}

// Expand5 maps a 5-bit alpha value in [0, 31] to an 8-bit channel value.
func Expand5(a5 uint8) uint8 {
	return expand(uint32(a5&0x1F), 31)
}

// Compress5 maps an 8-bit alpha channel value to its nearest 5-bit
// representation.
func Compress5(a uint8) uint8 {
	return uint8(compress(a, 31))
}

// Eq reports whether p and other are identical on all four channels.
func (p Pixel) Eq(other Pixel) bool {
	return p == other
}

// EqIgnoreAlpha reports whether p and other agree on R, G and B,
// disregarding alpha. This is the matching rule used by the player-color
// table's reverse lookup.
func (p Pixel) EqIgnoreAlpha(other Pixel) bool {
	return p.R == other.R && p.G == other.G && p.B == other.B
}

// Opaque returns a copy of p with A forced to 255.
func (p Pixel) Opaque() Pixel {
	p.A = 255
	return p
}

func expand(v uint32, max uint32) uint8 {
	return uint8(math.Round(float64(v) / float64(max) * 255))
}

func compress(v uint8, max uint32) uint32 {
	return uint32(math.Round(float64(v) / 255 * float64(max)))
}

// IndexPalette is an 8bpp color-index palette: a flat table of opaque
// pixels addressed by a single byte (§6 "Pixel on disk", 8bpp case).
type IndexPalette []Pixel

// At returns the palette entry for index i, with A=255 forced.
func (p IndexPalette) At(i uint8) Pixel {
	if int(i) >= len(p) {
		return Pixel{}
	}
	return p[i].Opaque()
}
