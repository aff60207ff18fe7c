package line

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tgrformat/tgrsprite/pixel"
	"github.com/tgrformat/tgrsprite/playercolor"
)

// Decode consumes an opcode stream positioned at its first opcode byte and
// produces ln.PixelLength pixels (§4.C): a stream that produces fewer is
// tail-padded with transparent pixels, while a run that goes past
// ln.PixelLength is kept whole, so the result can then be longer than
// ln.PixelLength. bitsPerPixel selects the
// on-disk pixel encoding (8 or 16); idx is required when bitsPerPixel is 8
// and ignored otherwise. pc and player select the active player-color
// palette for flag-110/111 opcodes. frameIndex and lineIndex are carried
// on any returned error's Diagnostic for traceability (§7 "User-visible
// behavior"); callers with no frame/line context of their own may pass 0.
func Decode(r io.Reader, ln Line, bitsPerPixel int, idx pixel.IndexPalette, pc playercolor.Table, player uint8, frameIndex, lineIndex int) ([]pixel.Pixel, error) {
	fail := func(pixelIndex int, err error) error {
		return &Error{Diagnostic: Diagnostic{FrameIndex: frameIndex, LineIndex: lineIndex, PixelIndex: pixelIndex}, Err: err}
	}

	if bitsPerPixel == 8 && idx == nil {
		return nil, fail(0, ErrPaletteMissing)
	}

	pixels := make([]pixel.Pixel, 0, ln.PixelLength)
	pixels = appendN(pixels, pixel.Transparent, ln.TransparentPixels)

	cr := &countingReader{r: r}
	for cr.n < ln.DataLength {
		pixelIndex := len(pixels)
		h, err := readByte(cr)
		if err != nil {
			return nil, fail(pixelIndex, err)
		}
		flag, n := splitHeaderByte(h)

		switch flag {
		case opTransparentRun:
			pixels = appendN(pixels, pixel.Transparent, int(n))

		case opSolidRun:
			p, err := readPixel(cr, bitsPerPixel, idx)
			if err != nil {
				return nil, fail(pixelIndex, err)
			}
			pixels = appendN(pixels, p.Opaque(), int(n))

		case opLiteralRun:
			for k := 0; k < int(n); k++ {
				p, err := readPixel(cr, bitsPerPixel, idx)
				if err != nil {
					return nil, fail(pixelIndex, err)
				}
				pixels = append(pixels, p.Opaque())
			}

		case opTranslucentRun:
			ab, err := readByte(cr)
			if err != nil {
				return nil, fail(pixelIndex, err)
			}
			a5 := ab & 0x1F
			p, err := readPixel(cr, bitsPerPixel, idx)
			if err != nil {
				return nil, fail(pixelIndex, err)
			}
			pixels = appendN(pixels, p.WithAlpha(a5), int(n))

		case opSingleTranslucent:
			p, err := readPixel(cr, bitsPerPixel, idx)
			if err != nil {
				return nil, fail(pixelIndex, err)
			}
			pixels = append(pixels, p.WithAlpha(n))

		case opShadowRun:
			pixels = appendN(pixels, pixel.Shadow, int(n))

		case opPlayerPixel:
			pixels = append(pixels, pc.Lookup(player, n))

		case opPlayerPixelVariants:
			pixels, err = decodePlayerVariant(cr, pixels, pc, player, n)
			if err != nil {
				return nil, fail(pixelIndex, err)
			}
		}
	}

	if len(pixels) < ln.PixelLength {
		pixels = appendN(pixels, pixel.Transparent, ln.PixelLength-len(pixels))
	}
	return pixels, nil
}

// decodePlayerVariant implements flag 111's two sub-encodings: a single
// translucent player pixel when n > 27, otherwise paired opaque player
// pixels packed two to a byte (§4.C "Flag 111 dispatch").
func decodePlayerVariant(r io.Reader, pixels []pixel.Pixel, pc playercolor.Table, player uint8, n uint8) ([]pixel.Pixel, error) {
	if n > 27 {
		b, err := readByte(r)
		if err != nil {
			return nil, err
		}
		a5 := b & 0x1F
		shade := ((b >> 3) & 0b11100) | (n & 0b11)
		pixels = append(pixels, pc.Lookup(player, shade).WithAlpha(a5))
		return pixels, nil
	}

	nbytes := (int(n) + 1) / 2
	for bi := 0; bi < nbytes; bi++ {
		b, err := readByte(r)
		if err != nil {
			return nil, err
		}
		shade1 := ((b >> 3) & 0x1F) | 1
		pixels = append(pixels, pc.Lookup(player, shade1))

		if bi == nbytes-1 && n%2 == 1 {
			continue // final byte's second pixel is discarded for odd n
		}
		shade2 := ((b << 1) & 0x1F) | 1
		pixels = append(pixels, pc.Lookup(player, shade2))
	}
	return pixels, nil
}

// readPixel reads one pixel body per bitsPerPixel: 2 little-endian RGB565
// bytes, or 1 palette-index byte.
func readPixel(r io.Reader, bitsPerPixel int, idx pixel.IndexPalette) (pixel.Pixel, error) {
	switch bitsPerPixel {
	case 16:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return pixel.Pixel{}, fmt.Errorf("line: reading pixel body: %w", ErrTruncatedStream)
		}
		return pixel.FromRGB565(binary.LittleEndian.Uint16(buf[:])), nil
	case 8:
		b, err := readByte(r)
		if err != nil {
			return pixel.Pixel{}, err
		}
		return idx.At(b), nil
	default:
		return pixel.Pixel{}, fmt.Errorf("line: unsupported bits_per_pixel %d", bitsPerPixel)
	}
}

func appendN(pixels []pixel.Pixel, p pixel.Pixel, n int) []pixel.Pixel {
	for i := 0; i < n; i++ {
		pixels = append(pixels, p)
	}
	return pixels
}
