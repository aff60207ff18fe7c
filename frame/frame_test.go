package frame

import (
	"bytes"
	"testing"

	"github.com/tgrformat/tgrsprite/line"
	"github.com/tgrformat/tgrsprite/pixel"
)

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(b).ReadAt(p, off)
}

func TestDescriptorDimensions(t *testing.T) {
	d := Descriptor{ULX: 0, ULY: 0, LRX: 9, LRY: 3}
	if d.Width() != 10 {
		t.Errorf("Width() = %d, want 10", d.Width())
	}
	if d.Height() != 4 {
		t.Errorf("Height() = %d, want 4", d.Height())
	}
}

func TestDescriptorIsPadding(t *testing.T) {
	if !(Descriptor{Offset: 0}).IsPadding() {
		t.Error("offset 0 descriptor should be padding")
	}
	if (Descriptor{Offset: 1}).IsPadding() {
		t.Error("offset 1 descriptor should not be padding")
	}
}

func TestOpenPaddingFrame(t *testing.T) {
	_, err := Open(byteReaderAt{}, Descriptor{Offset: 0, LRX: 1, LRY: 1})
	if err != ErrPadding {
		t.Fatalf("err = %v, want ErrPadding", err)
	}
}

func TestOpenWalksLines(t *testing.T) {
	row := []pixel.Pixel{pixel.Transparent, pixel.Transparent, pixel.FromRGB565(0x1234)}

	var buf bytes.Buffer
	if _, _, err := line.Encode(&buf, row, nil, 0, false, 0, 0); err != nil {
		t.Fatalf("line.Encode line 0: %v", err)
	}
	line0End := buf.Len()
	if _, _, err := line.Encode(&buf, row, nil, 0, false, 0, 1); err != nil {
		t.Fatalf("line.Encode line 1: %v", err)
	}

	d := Descriptor{ULX: 0, ULY: 0, LRX: len(row) - 1, LRY: 1, Offset: 0}
	// Offset 0 would mark d as padding; use a non-zero base offset by
	// prefixing a dummy byte instead.
	data := append([]byte{0xFF}, buf.Bytes()...)
	d.Offset = 1

	f, err := Open(byteReaderAt(data), d)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(f.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(f.Lines))
	}
	if f.Lines[0].End != int64(line0End)+1 {
		t.Errorf("line 0 payload end = %d, want %d", f.Lines[0].End, int64(line0End)+1)
	}
	if f.Lines[1].End != int64(len(data)) {
		t.Errorf("line 1 payload end = %d, want %d", f.Lines[1].End, len(data))
	}

	for i := 0; i < 2; i++ {
		r := f.LineReader(byteReaderAt(data), i)
		got, err := line.Decode(r, f.Line(i), 16, nil, nil, 0, 0, i)
		if err != nil {
			t.Fatalf("line %d: Decode: %v", i, err)
		}
		if len(got) != len(row) {
			t.Fatalf("line %d: len = %d, want %d", i, len(got), len(row))
		}
		for j := range row {
			if got[j] != row[j] {
				t.Errorf("line %d pixel %d: got %v, want %v", i, j, got[j], row[j])
			}
		}
	}
}
