package line

import "io"

// Line describes the inputs the decoder needs beyond the raw opcode
// stream: the header fields already read by ReadHeader, reframed for the
// decode loop (§4.C).
type Line struct {
	// TransparentPixels is the header's offset field: a count of leading
	// transparent pixels not present in the opcode stream.
	TransparentPixels int

	// PixelLength is the row's declared total pixel count (the frame
	// width). The decoder pads its output up to this many pixels; it does
	// not cut a run that produces more.
	PixelLength int

	// DataLength is the number of opcode-stream bytes to consume before
	// stopping the dispatch loop (total_length minus header size).
	DataLength int
}

// countingReader wraps an io.Reader and tracks how many bytes have been
// read through it, so the decode loop can stop once it has consumed
// DataLength bytes of opcode stream.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrTruncatedStream
	}
	return b[0], nil
}
