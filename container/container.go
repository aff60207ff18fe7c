// Package container implements the TGR sprite container adapter (§4.G):
// it owns the on-disk IFF FORM framing, the HEDR header with its frame
// descriptor table, and the optional PALT palette, exposing them to the
// line/frame packages as a plain file handle plus parsed metadata. It
// never decodes an opcode stream itself.
package container

import (
	"fmt"
	"io"
	"os"

	"github.com/tgrformat/tgrsprite/frame"
	"github.com/tgrformat/tgrsprite/pixel"
)

// Container is an opened TGR file: its parsed header plus the live file
// handle line/frame readers seek within.
type Container struct {
	f *os.File
	h header
	p pixel.IndexPalette
}

// Open reads path's FORM/HEDR/PALT chunks and returns a ready-to-use
// Container. The returned Container owns f; call Close when done.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("container: opening %q: %w", path, err)
	}

	c, err := load(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("container: loading %q: %w", path, err)
	}
	c.f = f
	return c, nil
}

func load(f *os.File) (*Container, error) {
	if err := readFORM(f); err != nil {
		return nil, err
	}
	entries, err := walkChunks(f)
	if err != nil {
		return nil, err
	}

	var hedr, palt *chunkEntry
	for i := range entries {
		switch entries[i].header.ID {
		case "HEDR":
			hedr = &entries[i]
		case "PALT":
			palt = &entries[i]
		}
	}
	if hedr == nil {
		return nil, fmt.Errorf("%w: HEDR", ErrMissingChunk)
	}

	if _, err := f.Seek(hedr.offset, 0); err != nil {
		return nil, err
	}
	h, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	c := &Container{h: h}
	if h.IndexedColor {
		if palt == nil {
			return nil, fmt.Errorf("%w: PALT", ErrMissingChunk)
		}
		if _, err := f.Seek(palt.offset, 0); err != nil {
			return nil, err
		}
		pal, err := readPalette(f)
		if err != nil {
			return nil, err
		}
		c.p = pal
	}
	return c, nil
}

// Close releases the underlying file handle.
func (c *Container) Close() error {
	return c.f.Close()
}

// BitsPerPixel reports the container's pixel depth, 8 or 16 (§6).
func (c *Container) BitsPerPixel() int { return c.h.BitsPerPixel }

// Palette returns the indexed-colour palette, or nil when BitsPerPixel
// is 16 (no palette present).
func (c *Container) Palette() pixel.IndexPalette { return c.p }

// Descriptors returns the container's per-frame descriptor table (§4.F).
func (c *Container) Descriptors() []frame.Descriptor { return c.h.Descriptors }

// Animations returns the container's named frame-range playback entries.
func (c *Container) Animations() []Animation { return c.h.Animations }

// Width and Height report the container's default frame size, as
// declared in the HEDR body (individual frames may crop to a tighter
// bounding box via their own Descriptor).
func (c *Container) Width() int  { return int(c.h.Width) }
func (c *Container) Height() int { return int(c.h.Height) }

// OpenFrame walks frame i's line headers and returns a frame.Frame ready
// for per-line decoding via (*frame.Frame).LineReader/Line.
func (c *Container) OpenFrame(i int) (*frame.Frame, error) {
	if i < 0 || i >= len(c.h.Descriptors) {
		return nil, fmt.Errorf("container: frame index %d out of range [0, %d)", i, len(c.h.Descriptors))
	}
	return frame.Open(c.f, c.h.Descriptors[i])
}

// ReaderAt exposes the container's underlying file handle so callers can
// pair it with (*frame.Frame).LineReader without this package having to
// know about line decoding itself.
func (c *Container) ReaderAt() io.ReaderAt { return c.f }
