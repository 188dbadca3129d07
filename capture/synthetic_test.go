package capture

import (
	"errors"
	"image"
	"testing"
	"time"

	frames "github.com/hanckmann/webcamrec/domain/capture"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func TestSynthetic_PacesFrames(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	s := NewSynthetic(16, 8, 10)
	s.now, s.sleep = clock.Now, clock.Sleep

	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 3; i++ {
		img, err := s.Read()
		if err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
		if img.Bounds() != image.Rect(0, 0, 16, 8) {
			t.Fatalf("unexpected bounds %v", img.Bounds())
		}
		frames.RecycleFrame(img)
	}
	// First frame is immediate, the next two wait one interval each.
	if len(clock.slept) != 2 || clock.slept[0] != 100*time.Millisecond || clock.slept[1] != 100*time.Millisecond {
		t.Fatalf("unexpected sleeps %v", clock.slept)
	}
}

func TestSynthetic_FramesDiffer(t *testing.T) {
	s := NewSynthetic(8, 2, 0)
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	a, _ := s.Read()
	first := append([]byte(nil), a.Pix...)
	b, _ := s.Read()
	if string(first) == string(b.Pix) {
		t.Fatalf("consecutive frames should differ")
	}
	if b.Pix[3] != 255 {
		t.Fatalf("frames must be opaque")
	}
}

func TestSynthetic_ReadBeforeOpen(t *testing.T) {
	s := NewSynthetic(4, 4, 0)
	if _, err := s.Read(); !errors.Is(err, frames.ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
	if err := NewSynthetic(0, 4, 0).Open(); err == nil {
		t.Fatalf("expected error for empty size")
	}
}

func TestScreen_ReadUsesBounds(t *testing.T) {
	want := image.Rect(0, 0, 20, 10)
	var got image.Rectangle
	s := &Screen{
		bounds: func() (image.Rectangle, error) { return want, nil },
		grab: func(r image.Rectangle) (*image.RGBA, error) {
			got = r
			return image.NewRGBA(r), nil
		},
	}
	if _, err := s.Read(); !errors.Is(err, frames.ErrReadFailed) {
		t.Fatalf("read before open should fail, got %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Read(); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Fatalf("grabbed %v, want %v", got, want)
	}
}

func TestScreen_GrabFailureIsReadFailure(t *testing.T) {
	s := &Screen{
		bounds: func() (image.Rectangle, error) { return image.Rect(0, 0, 1, 1), nil },
		grab:   func(image.Rectangle) (*image.RGBA, error) { return nil, errors.New("no display") },
	}
	_ = s.Open()
	if _, err := s.Read(); !errors.Is(err, frames.ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
}
