package container

import "errors"

var (
	// ErrNotIFF is returned when a file does not open with a FORM chunk.
	ErrNotIFF = errors.New("container: not an IFF FORM file")

	// ErrWrongFormType is returned when the FORM chunk's type tag is not
	// the sprite container's own ("TGAR").
	ErrWrongFormType = errors.New("container: unexpected FORM type")

	// ErrMissingChunk is returned when a required sub-chunk (HEDR, or
	// PALT for indexed-colour files) is absent.
	ErrMissingChunk = errors.New("container: required chunk missing")

	// ErrTruncatedChunk is returned when a chunk's declared size runs
	// past the end of the file.
	ErrTruncatedChunk = errors.New("container: chunk payload truncated")
)
