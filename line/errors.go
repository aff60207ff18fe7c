package line

import (
	"errors"
	"fmt"
)

// Sentinel errors per the line codec's error taxonomy. All are returned
// wrapped with %w so callers can match with errors.Is.
var (
	// ErrTruncatedStream is returned when the reader hits EOF before a
	// required field (a header field, an opcode byte, or a pixel body)
	// has been fully read.
	ErrTruncatedStream = errors.New("line: truncated opcode stream")

	// ErrInvalidOpcode is reserved for future decoders; the 3-bit flag
	// space is fully covered by the 8 defined operations, so this is
	// never returned by this implementation.
	ErrInvalidOpcode = errors.New("line: invalid opcode")

	// ErrRowTooWide is returned by Encode when the opcode stream would
	// exceed 0x7FFA bytes.
	ErrRowTooWide = errors.New("line: encoded row exceeds maximum length")

	// ErrOffsetOverflow is returned by Encode when the leading
	// transparent-pixel count exceeds 0xFF.
	ErrOffsetOverflow = errors.New("line: leading transparent run exceeds 8-bit offset")

	// ErrCountOverflow is returned by Encode when the opcode-produced
	// pixel count exceeds 0x7FFF.
	ErrCountOverflow = errors.New("line: opcode-produced pixel count exceeds 15-bit limit")

	// ErrUnrepresentablePixel is never returned as a hard error: Encode
	// substitutes the flag-010 0x0000 fallback and reports a Warning
	// instead. It is exported so callers can recognize the Warning's
	// cause via errors.Is(w.Cause, ErrUnrepresentablePixel).
	ErrUnrepresentablePixel = errors.New("line: pixel could not be classified under any opcode")

	// ErrPaletteMissing is returned by Decode when bits_per_pixel is 8
	// but no index palette was supplied.
	ErrPaletteMissing = errors.New("line: 8bpp decode requested without a palette")

	// ErrMalformedHeader is returned by ReadHeader when a line header's
	// total_length is smaller than the header's own byte size. The opcode
	// stream is not checked against the declared total_length: a stream
	// that ends early is reported as ErrTruncatedStream.
	ErrMalformedHeader = errors.New("line: malformed line header")
)

// Diagnostic carries (frame_index, line_index, pixel_index) for
// traceability, per §7's "User-visible behavior" clause.
type Diagnostic struct {
	FrameIndex int
	LineIndex  int
	PixelIndex int
}

// Error wraps a codec failure with its Diagnostic location.
type Error struct {
	Diagnostic
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("frame %d line %d pixel %d: %v", e.FrameIndex, e.LineIndex, e.PixelIndex, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Warning is a non-fatal diagnostic raised when Encode cannot classify a
// pixel under any opcode and substitutes the fallback body (§7,
// "UnrepresentablePixel ... non-fatal").
type Warning struct {
	Diagnostic
	Cause error
}
