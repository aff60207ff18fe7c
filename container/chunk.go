package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// formTag is the sprite container's own FORM type (the four bytes
// immediately following "FORM" and its size field).
const formTag = "TGAR"

// chunkHeaderSize is the on-disk size of a chunk's FourCC tag plus its
// big-endian size field, classic-IFF style (distinct from the
// little-endian RIFF/WebP convention).
const chunkHeaderSize = 8

// ChunkHeader is one IFF chunk's tag and payload size.
type ChunkHeader struct {
	ID   string
	Size uint32
}

// readChunkHeader reads an 8-byte IFF chunk header: a 4-character tag
// followed by a big-endian uint32 payload size.
func readChunkHeader(r io.Reader) (ChunkHeader, error) {
	var buf [chunkHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ChunkHeader{}, fmt.Errorf("container: reading chunk header: %w", err)
	}
	return ChunkHeader{
		ID:   string(buf[0:4]),
		Size: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// chunkEntry records where a top-level chunk's payload lives, so its
// fields can be parsed lazily from an *os.File via io.NewSectionReader.
type chunkEntry struct {
	header ChunkHeader
	offset int64 // payload start, immediately after the 8-byte chunk header
}

// walkChunks reads sequential top-level IFF chunks from r (already
// positioned at the first chunk after the FORM header's type tag),
// returning each chunk's header and payload offset. Chunks are padded to
// an even byte boundary, mirroring classic IFF (and the WebP RIFF
// convention this grounds on).
//
// A chunk header that reads partially (io.ErrUnexpectedEOF) or whose
// declared Size would put its payload past the end of the file is a
// truncated container and reported as ErrTruncatedChunk; only a clean
// io.EOF exactly at a chunk boundary ends the walk normally.
func walkChunks(r io.ReadSeeker) ([]chunkEntry, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	var entries []chunkEntry
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if pos >= size {
			break
		}

		h, err := readChunkHeader(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: chunk header at offset %d is incomplete", ErrTruncatedChunk, pos)
			}
			return nil, err
		}

		payloadStart := pos + chunkHeaderSize
		next := payloadStart + int64(h.Size)
		if h.Size%2 != 0 {
			next++ // even-byte padding
		}
		if next > size {
			return nil, fmt.Errorf("%w: chunk %q at offset %d declares size %d past end of file", ErrTruncatedChunk, h.ID, pos, h.Size)
		}

		entries = append(entries, chunkEntry{header: h, offset: payloadStart})

		if _, err := r.Seek(next, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// readFORM reads the top-level FORM chunk header and its type tag,
// leaving r positioned at the first nested chunk.
func readFORM(r io.ReadSeeker) error {
	h, err := readChunkHeader(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotIFF, err)
	}
	if h.ID != "FORM" {
		return ErrNotIFF
	}
	var tag [4]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return fmt.Errorf("container: reading FORM type: %w", err)
	}
	if string(tag[:]) != formTag {
		return fmt.Errorf("%w: got %q, want %q", ErrWrongFormType, tag, formTag)
	}
	return nil
}
