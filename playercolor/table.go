// Package playercolor implements the TGR sprite format's player-color
// table: an indexed (player_id, shade_id) -> Pixel mapping used to render
// faction-tintable regions of a sprite, and its reverse lookup used by the
// line encoder.
package playercolor

import "github.com/tgrformat/tgrsprite/pixel"

// MaxShade is the largest shade_id a player-color table may hold (shades
// run [0, 31]).
const MaxShade = 31

// Table is a read-only, two-level (player_id -> shade_id -> Pixel)
// mapping. It is loaded once at startup (see LoadINI) and safely shared
// across goroutines that each call line.Decode/Encode with their own
// reader or writer.
type Table map[uint8]map[uint8]pixel.Pixel

// Lookup returns the pixel registered for (player, shade). Shades are
// opaque (A=255) by construction; if the entry is absent, the zero Pixel
// is returned.
func (t Table) Lookup(player, shade uint8) pixel.Pixel {
	shades, ok := t[player]
	if !ok {
		return pixel.Pixel{}
	}
	return shades[shade]
}

// ReverseLookup searches player's shades for one matching p under
// EqIgnoreAlpha, the same rule the encoder uses to decide whether a pixel
// belongs to the active player-color palette. Alpha on p is ignored, per
// §3: shades are forced to A=255 before comparison. Ties are broken by
// ascending shade_id for determinism.
func (t Table) ReverseLookup(player uint8, p pixel.Pixel) (shade uint8, ok bool) {
	shades, exists := t[player]
	if !exists {
		return 0, false
	}
	target := p.Opaque()
	for s := uint8(0); s <= MaxShade; s++ {
		entry, present := shades[s]
		if !present {
			continue
		}
		if entry.EqIgnoreAlpha(target) {
			return s, true
		}
	}
	return 0, false
}

// Has reports whether p (compared ignoring alpha) belongs to any shade of
// the given player's palette. The encoder uses this to decide whether a
// pixel must defer to a palette opcode even while evaluating other opcode
// classes (look-ahead break conditions in line/encode.go).
func (t Table) Has(player uint8, p pixel.Pixel) bool {
	_, ok := t.ReverseLookup(player, p)
	return ok
}
