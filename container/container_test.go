package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tgrformat/tgrsprite/line"
	"github.com/tgrformat/tgrsprite/pixel"
)

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// buildHEDRBody constructs a minimal HEDR chunk body for one 16bpp,
// non-indexed frame of width 3, height 1, located right after the
// header's own bytes in the file.
func buildHEDRBody(frameOffset uint32) []byte {
	var b bytes.Buffer
	b.Write(le32(1))          // version
	b.Write(le16(1))          // framecount
	b.WriteByte(16)           // bits_per_px
	b.WriteByte(0)            // padding
	b.WriteByte(0)            // padding
	b.WriteByte(0x00)         // index_mode (not 0x1a -> not indexed)
	b.WriteByte(0)            // offset_flag
	b.WriteByte(0)            // padding
	b.Write(le16(3))          // width
	b.Write(le16(1))          // height
	b.Write(le16(0))          // hotspot x
	b.Write(le16(0))          // hotspot y
	b.Write(make([]byte, 8))  // bounding box
	b.Write(make([]byte, 12)) // reserved gap

	// one frame descriptor: ulx,uly,lrx,lry,offset
	b.Write(le16(0))
	b.Write(le16(0))
	b.Write(le16(2)) // lrx: width 3 -> 1+lrx-ulx=3 -> lrx=2
	b.Write(le16(0))
	b.Write(le32(frameOffset))

	b.Write(le16(0)) // anim_count

	return b.Bytes()
}

func writeChunk(buf *bytes.Buffer, id string, body []byte) {
	buf.WriteString(id)
	buf.Write(be32(uint32(len(body))))
	buf.Write(body)
	if len(body)%2 != 0 {
		buf.WriteByte(0)
	}
}

func TestOpenAndReadFrame(t *testing.T) {
	row := []pixel.Pixel{
		pixel.FromRGB565(0x1111),
		pixel.FromRGB565(0x2222),
		pixel.FromRGB565(0x3333),
	}

	var lineBytes bytes.Buffer
	if _, _, err := line.Encode(&lineBytes, row, nil, 0, false, 0, 0); err != nil {
		t.Fatalf("line.Encode: %v", err)
	}

	// Assemble the file in two passes: first compute where the frame
	// payload will land, then build the HEDR body with that offset.
	var form bytes.Buffer
	form.WriteString("FORM")
	sizePos := form.Len()
	form.Write(make([]byte, 4)) // placeholder for FORM size
	form.WriteString(formTag)

	// Reserve space to learn HEDR's chunk layout before filling in the
	// frame offset; HEDR body size is fixed for this fixture.
	hedrBodyLen := len(buildHEDRBody(0))
	frameOffset := uint32(form.Len() + 8 + hedrBodyLen + 8) // after FORM tag + HEDR chunk + FRAM chunk header
	writeChunk(&form, "HEDR", buildHEDRBody(frameOffset))
	writeChunk(&form, "FRAM", lineBytes.Bytes())

	binary.BigEndian.PutUint32(form.Bytes()[sizePos:sizePos+4], uint32(form.Len()-sizePos-4))

	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.tgr")
	if err := os.WriteFile(path, form.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if c.BitsPerPixel() != 16 {
		t.Errorf("BitsPerPixel() = %d, want 16", c.BitsPerPixel())
	}
	if len(c.Descriptors()) != 1 {
		t.Fatalf("len(Descriptors()) = %d, want 1", len(c.Descriptors()))
	}
	if c.Descriptors()[0].Width() != 3 {
		t.Errorf("frame width = %d, want 3", c.Descriptors()[0].Width())
	}

	f, err := c.OpenFrame(0)
	if err != nil {
		t.Fatalf("OpenFrame: %v", err)
	}
	if len(f.Lines) != 1 {
		t.Fatalf("len(f.Lines) = %d, want 1", len(f.Lines))
	}

	r := f.LineReader(rawFileReaderAt(t, path), 0)
	got, err := line.Decode(r, f.Line(0), 16, nil, nil, 0, 0, 0)
	if err != nil {
		t.Fatalf("line.Decode: %v", err)
	}
	if len(got) != len(row) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(row))
	}
	for i := range row {
		if got[i] != row[i] {
			t.Errorf("pixel %d = %v, want %v", i, got[i], row[i])
		}
	}
}

// A chunk whose declared Size claims bytes past the actual end of the
// file is a truncated container, not a merely-shorter one, and must be
// reported as such rather than silently accepted as an early EOF.
func TestOpenTruncatedChunk(t *testing.T) {
	var form bytes.Buffer
	form.WriteString("FORM")
	sizePos := form.Len()
	form.Write(make([]byte, 4))
	form.WriteString(formTag)

	body := buildHEDRBody(0)
	writeChunk(&form, "HEDR", body)
	binary.BigEndian.PutUint32(form.Bytes()[sizePos:sizePos+4], uint32(form.Len()-sizePos-4))

	full := form.Bytes()
	// Chop off the tail of HEDR's payload (and the FORM size field no
	// longer matches, but walkChunks never reads it) so the chunk's
	// declared Size now claims bytes that don't exist.
	truncated := full[:len(full)-4]

	dir := t.TempDir()
	path := filepath.Join(dir, "truncated.tgr")
	if err := os.WriteFile(path, truncated, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrTruncatedChunk) {
		t.Fatalf("err = %v, want ErrTruncatedChunk", err)
	}
}

// A chunk header that itself cuts off mid-tag/size is also a truncation,
// not a clean end-of-container.
func TestOpenTruncatedChunkHeader(t *testing.T) {
	var form bytes.Buffer
	form.WriteString("FORM")
	sizePos := form.Len()
	form.Write(make([]byte, 4))
	form.WriteString(formTag)
	form.WriteString("HED") // 3 of 4 tag bytes, no size field at all
	binary.BigEndian.PutUint32(form.Bytes()[sizePos:sizePos+4], uint32(form.Len()-sizePos-4))

	dir := t.TempDir()
	path := filepath.Join(dir, "truncated_header.tgr")
	if err := os.WriteFile(path, form.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrTruncatedChunk) {
		t.Fatalf("err = %v, want ErrTruncatedChunk", err)
	}
}

func rawFileReaderAt(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("os.Open: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestLoadSpriteConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.ini")
	content := `
[BitDepth]
Depth = 16

[Frames]
PaddingFrames = [2, 5]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadSpriteConfig(path)
	if err != nil {
		t.Fatalf("LoadSpriteConfig: %v", err)
	}
	if cfg.BitDepth.Depth != 16 {
		t.Errorf("Depth = %d, want 16", cfg.BitDepth.Depth)
	}
	if !cfg.IsPaddingFrame(2) || !cfg.IsPaddingFrame(5) {
		t.Errorf("padding frames = %v, want to include 2 and 5", cfg.Frames.PaddingFrames)
	}
	if cfg.IsPaddingFrame(0) {
		t.Error("frame 0 should not be a padding frame")
	}
}
