package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestPNGWriter_WritesLosslessPNG(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = fsys.MkdirAll("/s", 0o755)
	w := NewPNGWriter(fsys)
	src := gradient(32, 24)

	if err := w.Write("/s/frame.png", src); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := afero.ReadFile(fsys, "/s/frame.png")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			r1, g1, b1, a1 := decoded.At(x, y).RGBA()
			r2, g2, b2, a2 := src.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}

	stats := w.Stats()
	if stats.Files != 1 || stats.Bytes != uint64(len(data)) || stats.Failures != 0 {
		t.Fatalf("unexpected stats %+v (file is %d bytes)", stats, len(data))
	}
}

func TestPNGWriter_ReusesEncoderAcrossWrites(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = fsys.MkdirAll("/s", 0o755)
	w := NewPNGWriter(fsys)

	for _, name := range []string{"/s/a.png", "/s/b.png", "/s/c.png"} {
		if err := w.Write(name, gradient(8, 8)); err != nil {
			t.Fatalf("Write %s: %v", name, err)
		}
	}
	if got := w.Stats().Files; got != 3 {
		t.Fatalf("Files = %d, want 3", got)
	}
}

func TestPNGWriter_FailureLeavesNoFile(t *testing.T) {
	base := afero.NewMemMapFs()
	_ = base.MkdirAll("/s", 0o755)
	w := NewPNGWriter(afero.NewReadOnlyFs(base))

	if err := w.Write("/s/frame.png", gradient(4, 4)); err == nil {
		t.Fatalf("expected error on read-only filesystem")
	}
	if ok, _ := afero.Exists(base, "/s/frame.png"); ok {
		t.Fatalf("no file should exist after a failed write")
	}
	if got := w.Stats().Failures; got != 1 {
		t.Fatalf("Failures = %d, want 1", got)
	}
}

func TestPNGWriter_EmptyImageRemovesPartialFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = fsys.MkdirAll("/s", 0o755)
	w := NewPNGWriter(fsys)

	// png refuses to encode a zero sized image after the file is created.
	if err := w.Write("/s/empty.png", image.NewRGBA(image.Rectangle{})); err == nil {
		t.Fatalf("expected encode error")
	}
	if ok, _ := afero.Exists(fsys, "/s/empty.png"); ok {
		t.Fatalf("partial file left behind")
	}
}
