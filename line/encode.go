package line

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/tgrformat/tgrsprite/pixel"
	"github.com/tgrformat/tgrsprite/playercolor"
)

// Look-ahead caps (§4.D, §9 "Look-ahead with bounded caps"). These bound
// the *additional* pixels found beyond the one already being classified,
// except nonMatchingCap which bounds the run length directly.
const (
	matchingCap    = 23 // transparent / shadow / opaque solid runs
	translucentCap = 22
	nonMatchingCap = 31
)

// Encode emits a well-formed line header (§4.E) followed by the minimal
// opcode stream for row (§4.D). Encoding targets 16bpp output only;
// palette-indexed (8bpp) encoding is out of scope. hasPlayer selects
// whether player-color opcodes are considered; when false, pc is ignored
// and every pixel is classified as if no player palette were active.
// frameIndex and lineIndex are carried on every returned error and
// Warning's Diagnostic for traceability (§7 "User-visible behavior");
// callers with no frame/line context of their own may pass 0.
func Encode(w io.Writer, row []pixel.Pixel, pc playercolor.Table, player uint8, hasPlayer bool, frameIndex, lineIndex int) (written int, warnings []Warning, err error) {
	fail := func(pixelIndex int, err error) error {
		return &Error{Diagnostic: Diagnostic{FrameIndex: frameIndex, LineIndex: lineIndex, PixelIndex: pixelIndex}, Err: err}
	}

	offset := 0
	for offset < len(row) && row[offset] == pixel.Transparent {
		offset++
	}
	if offset > 0xFF {
		return 0, nil, fail(0, ErrOffsetOverflow)
	}

	var stream bytes.Buffer
	ctPixels := 0
	i := offset

	for i < len(row) {
		p := row[i]

		switch {
		case p == pixel.Transparent:
			run := 1 + matchingLookAhead(row, i, matchingCap, pc, player, hasPlayer)
			if i+run >= len(row) {
				i += run
				continue
			}
			stream.WriteByte(joinHeaderByte(opTransparentRun, uint8(run)))
			ctPixels += run
			i += run

		case p == pixel.Shadow:
			run := 1 + matchingLookAhead(row, i, matchingCap, pc, player, hasPlayer)
			stream.WriteByte(joinHeaderByte(opShadowRun, uint8(run)))
			ctPixels += run
			i += run

		case hasPlayer && pc.Has(player, p):
			shade, _ := pc.ReverseLookup(player, p)
			if p.A == 255 {
				stream.WriteByte(joinHeaderByte(opPlayerPixel, shade))
			} else {
				a5 := pixel.Compress5(p.A)
				n := 0b11100 | (shade & 0b11)
				payload := ((shade & 0b11100) << 3) | a5
				stream.WriteByte(joinHeaderByte(opPlayerPixelVariants, n))
				stream.WriteByte(payload)
			}
			ctPixels++
			i++

		case p.A < 255:
			run := 1 + matchingLookAhead(row, i, translucentCap, pc, player, hasPlayer)
			a5 := pixel.Compress5(p.A)
			if run == 1 {
				stream.WriteByte(joinHeaderByte(opSingleTranslucent, a5))
				writeRGB565(&stream, p)
			} else {
				stream.WriteByte(joinHeaderByte(opTranslucentRun, uint8(run)))
				stream.WriteByte(a5)
				writeRGB565(&stream, p)
			}
			ctPixels += run
			i += run

		default: // opaque, not transparent/shadow/palette/translucent
			run := 1 + matchingLookAhead(row, i, matchingCap, pc, player, hasPlayer)
			lrun := 0
			if run == 1 {
				lrun = nonMatchingLookAhead(row, i, nonMatchingCap, pc, player, hasPlayer)
			}
			// A lone opaque pixel is written as a flag-001 run of 1.
			if run > 1 || lrun == 1 {
				stream.WriteByte(joinHeaderByte(opSolidRun, uint8(run)))
				writeRGB565(&stream, p)
				ctPixels += run
				i += run
				continue
			}

			if lrun < 1 {
				// Unreachable given the preconditions of this branch, but
				// the source's "defaulting to 0x0000" fallback is kept as
				// a guard (§4.D "Fallback", §7 UnrepresentablePixel).
				warnings = append(warnings, Warning{
					Diagnostic: Diagnostic{FrameIndex: frameIndex, LineIndex: lineIndex, PixelIndex: i},
					Cause:      ErrUnrepresentablePixel,
				})
				stream.WriteByte(joinHeaderByte(opLiteralRun, 1))
				writeRGB565(&stream, pixel.Pixel{})
				ctPixels++
				i++
				continue
			}
			stream.WriteByte(joinHeaderByte(opLiteralRun, uint8(lrun)))
			for k := 0; k < lrun; k++ {
				writeRGB565(&stream, row[i+k])
			}
			ctPixels += lrun
			i += lrun
		}
	}

	if stream.Len() > 0x7FFA {
		return 0, warnings, fail(i, ErrRowTooWide)
	}
	if ctPixels > 0x7FFF {
		return 0, warnings, fail(i, ErrCountOverflow)
	}

	n, err := WriteHeader(w, stream.Len(), uint8(offset), ctPixels)
	if err != nil {
		return 0, warnings, fail(i, err)
	}
	if _, err := w.Write(stream.Bytes()); err != nil {
		return 0, warnings, fail(i, err)
	}
	return n + stream.Len(), warnings, nil
}

// matchingLookAhead counts consecutive pixels strictly equal to row[i],
// starting at i+1, stopping at the row end, a differing pixel, a pixel
// claimed by the active player-color palette, or cap (§4.D "Look-ahead").
func matchingLookAhead(row []pixel.Pixel, i, cap int, pc playercolor.Table, player uint8, hasPlayer bool) int {
	p := row[i]
	count := 0
	for j := i + 1; j < len(row) && count < cap; j++ {
		if row[j] != p {
			break
		}
		if hasPlayer && pc.Has(player, row[j]) {
			break
		}
		count++
	}
	return count
}

// nonMatchingLookAhead counts consecutive fully-opaque, non-palette pixels
// starting at i that are pairwise distinct from their successor, stopping
// at the row end, a repeated pixel, a non-opaque pixel, a palette pixel,
// or cap.
func nonMatchingLookAhead(row []pixel.Pixel, i, cap int, pc playercolor.Table, player uint8, hasPlayer bool) int {
	count := 0
	for j := i; j < len(row) && count < cap; j++ {
		p := row[j]
		if p.A != 255 {
			break
		}
		if hasPlayer && pc.Has(player, p) {
			break
		}
		if j+1 < len(row) && row[j+1] == p {
			break
		}
		count++
	}
	return count
}

func writeRGB565(buf *bytes.Buffer, p pixel.Pixel) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], p.ToRGB565())
	buf.Write(b[:])
}
