// Package frame implements the frame iterator: positioning a reader at
// each frame's offset and walking a frame's lines sequentially, using the
// line header to find each line's payload span without decoding it.
package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/tgrformat/tgrsprite/line"
)

// ErrPadding is returned by Open when asked to iterate a padding frame's
// lines; padding frames carry no pixel data (§4.F "A frame with offset ==
// 0 is padding").
var ErrPadding = errors.New("frame: padding frame has no lines")

// Descriptor is one entry of the container's per-frame offset table
// (§4.F, §4.G).
type Descriptor struct {
	ULX, ULY, LRX, LRY int
	Offset             int64
}

// Width returns the frame's pixel width.
func (d Descriptor) Width() int { return 1 + d.LRX - d.ULX }

// Height returns the frame's pixel height, i.e. its line count.
func (d Descriptor) Height() int { return 1 + d.LRY - d.ULY }

// IsPadding reports whether d describes a padding (offset-less) frame.
func (d Descriptor) IsPadding() bool { return d.Offset == 0 }

// LineSpan records where one line's opcode stream lives in the
// underlying file, so it can be read lazily without holding the whole
// frame in memory.
type LineSpan struct {
	Header line.Header
	Start  int64 // payload start, immediately after the header
	End    int64 // payload end, exclusive
}

// Frame is an opened, but not yet decoded, frame: its descriptor plus the
// byte spans of each of its lines, located by walking headers
// sequentially from Descriptor.Offset (§4.F).
type Frame struct {
	Desc  Descriptor
	Lines []LineSpan
}

// ReaderAt is the minimal capability the frame walker needs from the
// container's file handle.
type ReaderAt interface {
	io.ReaderAt
}

// Open walks d's lines starting at d.Offset and returns a Frame with each
// line's header already read and its payload span recorded. It does not
// decode any opcode stream; callers open a line's payload with
// (*Frame).LineReader and pass it to line.Decode.
func Open(r ReaderAt, d Descriptor) (*Frame, error) {
	if d.IsPadding() {
		return nil, ErrPadding
	}

	f := &Frame{Desc: d, Lines: make([]LineSpan, 0, d.Height())}
	cur := d.Offset

	for i := 0; i < d.Height(); i++ {
		// A header is at most 5 bytes (§4.E); bound the reader there so
		// ReadHeader never runs past the header into opcode data.
		sr := io.NewSectionReader(r, cur, 5)
		h, err := line.ReadHeader(sr)
		if err != nil {
			return nil, fmt.Errorf("frame: reading line %d header at offset %d: %w", i, cur, err)
		}

		payloadStart := cur + int64(h.Size)
		payloadEnd := cur + int64(h.TotalLength)
		f.Lines = append(f.Lines, LineSpan{Header: h, Start: payloadStart, End: payloadEnd})
		cur = payloadEnd
	}

	return f, nil
}

// LineReader returns a reader over line i's opcode-stream payload, ready
// to be passed to line.Decode.
func (f *Frame) LineReader(r ReaderAt, i int) io.Reader {
	span := f.Lines[i]
	return io.NewSectionReader(r, span.Start, span.End-span.Start)
}

// Line builds the line.Line descriptor Decode needs for line i.
func (f *Frame) Line(i int) line.Line {
	span := f.Lines[i]
	return line.Line{
		TransparentPixels: int(span.Header.Offset),
		PixelLength:       f.Desc.Width(),
		DataLength:        span.Header.TotalLength - span.Header.Size,
	}
}
