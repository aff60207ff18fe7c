package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tgrformat/tgrsprite/frame"
	"github.com/tgrformat/tgrsprite/pixel"
)

// Animation names a contiguous range of frames played back at a fixed
// rate — a feature the distilled line-codec spec leaves out but the
// original format header carries alongside the frame table.
type Animation struct {
	StartFrame uint16
	FrameCount uint16
	FrameRate  uint16
}

// header holds the fields read from the HEDR chunk's body, bit-exactly
// per §6/§4.G's "field semantics needed ... given bit-exactly for
// compatibility".
type header struct {
	Version      uint32
	FrameCount   uint16
	BitsPerPixel int
	IndexedColor bool
	Width        uint16
	Height       uint16
	HotspotX     uint16
	HotspotY     uint16
	BoundingBox  [4]uint16

	Descriptors []frame.Descriptor
	Animations  []Animation
}

// readHeader parses a HEDR chunk body: version/framecount/depth flags, a
// size/hotspot/bounding-box block, a reserved 12-byte gap, then the
// framecount-sized frame descriptor table and the animation table.
func readHeader(r io.Reader) (header, error) {
	var h header

	var fixed [8]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return header{}, fmt.Errorf("container: reading header fixed fields: %w", err)
	}
	h.Version = binary.LittleEndian.Uint32(fixed[0:4])
	h.FrameCount = binary.LittleEndian.Uint16(fixed[4:6])
	h.BitsPerPixel = int(fixed[6])
	// fixed[7] is a padding byte.

	var modeFlags [4]byte
	if _, err := io.ReadFull(r, modeFlags[:]); err != nil {
		return header{}, fmt.Errorf("container: reading header mode flags: %w", err)
	}
	indexMode := modeFlags[1]
	h.IndexedColor = indexMode&0x7F == 0x1A

	var dims [8]byte
	if _, err := io.ReadFull(r, dims[:]); err != nil {
		return header{}, fmt.Errorf("container: reading header dimensions: %w", err)
	}
	h.Width = binary.LittleEndian.Uint16(dims[0:2])
	h.Height = binary.LittleEndian.Uint16(dims[2:4])
	h.HotspotX = binary.LittleEndian.Uint16(dims[4:6])
	h.HotspotY = binary.LittleEndian.Uint16(dims[6:8])

	var bbox [8]byte
	if _, err := io.ReadFull(r, bbox[:]); err != nil {
		return header{}, fmt.Errorf("container: reading header bounding box: %w", err)
	}
	for i := range h.BoundingBox {
		h.BoundingBox[i] = binary.LittleEndian.Uint16(bbox[i*2 : i*2+2])
	}

	var reserved [12]byte
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return header{}, fmt.Errorf("container: reading header reserved block: %w", err)
	}

	h.Descriptors = make([]frame.Descriptor, h.FrameCount)
	for i := range h.Descriptors {
		var raw [12]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return header{}, fmt.Errorf("container: reading frame descriptor %d: %w", i, err)
		}
		h.Descriptors[i] = frame.Descriptor{
			ULX:    int(binary.LittleEndian.Uint16(raw[0:2])),
			ULY:    int(binary.LittleEndian.Uint16(raw[2:4])),
			LRX:    int(binary.LittleEndian.Uint16(raw[4:6])),
			LRY:    int(binary.LittleEndian.Uint16(raw[6:8])),
			Offset: int64(binary.LittleEndian.Uint32(raw[8:12])),
		}
	}

	var animCountB [2]byte
	if _, err := io.ReadFull(r, animCountB[:]); err != nil {
		return header{}, fmt.Errorf("container: reading animation count: %w", err)
	}
	animCount := binary.LittleEndian.Uint16(animCountB[:])
	h.Animations = make([]Animation, animCount)
	for i := range h.Animations {
		var raw [6]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return header{}, fmt.Errorf("container: reading animation %d: %w", i, err)
		}
		h.Animations[i] = Animation{
			StartFrame: binary.LittleEndian.Uint16(raw[0:2]),
			FrameCount: binary.LittleEndian.Uint16(raw[2:4]),
			FrameRate:  binary.LittleEndian.Uint16(raw[4:6]),
		}
	}

	return h, nil
}

// readPalette parses a PALT chunk body: a little-endian uint16 entry
// count followed by that many little-endian RGB565 entries (§6 "Pixel on
// disk").
func readPalette(r io.Reader) (pixel.IndexPalette, error) {
	var countB [2]byte
	if _, err := io.ReadFull(r, countB[:]); err != nil {
		return nil, fmt.Errorf("container: reading palette count: %w", err)
	}
	count := binary.LittleEndian.Uint16(countB[:])

	pal := make(pixel.IndexPalette, count)
	for i := range pal {
		var raw [2]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("container: reading palette entry %d: %w", i, err)
		}
		pal[i] = pixel.FromRGB565(binary.LittleEndian.Uint16(raw[:]))
	}
	return pal, nil
}
