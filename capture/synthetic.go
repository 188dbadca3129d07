package capture

import (
	"fmt"
	"image"
	"sync"
	"time"

	frames "github.com/hanckmann/webcamrec/domain/capture"
)

// Synthetic renders a moving test pattern at a fixed rate. It needs no
// hardware, which makes it the source for headless runs and tests.
type Synthetic struct {
	width, height int
	interval      time.Duration

	mu    sync.Mutex
	open  bool
	frame uint64
	next  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

// NewSynthetic returns a width x height pattern produced at fps frames per
// second. fps <= 0 disables pacing.
func NewSynthetic(width, height, fps int) *Synthetic {
	s := &Synthetic{width: width, height: height, now: time.Now, sleep: time.Sleep}
	if fps > 0 {
		s.interval = time.Second / time.Duration(fps)
	}
	return s
}

func (s *Synthetic) Open() error {
	if s.width <= 0 || s.height <= 0 {
		return fmt.Errorf("synthetic: invalid size %dx%d", s.width, s.height)
	}
	s.mu.Lock()
	s.open = true
	s.frame = 0
	s.next = s.now()
	s.mu.Unlock()
	return nil
}

// Read waits for the next frame slot and renders into a pooled frame.
func (s *Synthetic) Read() (*image.RGBA, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil, fmt.Errorf("synthetic: %w: device not open", frames.ErrReadFailed)
	}
	wait := s.next.Sub(s.now())
	if s.interval > 0 {
		s.next = s.next.Add(s.interval)
		if wait < -s.interval {
			// Fell behind; resynchronise instead of bursting.
			s.next = s.now().Add(s.interval)
		}
	}
	n := s.frame
	s.frame++
	s.mu.Unlock()

	if wait > 0 {
		s.sleep(wait)
	}
	img := frames.AcquireFrame(image.Rect(0, 0, s.width, s.height))
	render(img, n)
	return img, nil
}

func (s *Synthetic) Release() error {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	return nil
}

// render draws a diagonal gradient with a vertical bar that advances one
// column per frame.
func render(img *image.RGBA, n uint64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	bar := int(n % uint64(w))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			if x >= bar && x < bar+4 {
				row[i], row[i+1], row[i+2] = 255, 255, 255
			} else {
				row[i] = uint8(x * 255 / w)
				row[i+1] = uint8(y * 255 / h)
				row[i+2] = uint8(n)
			}
			row[i+3] = 255
		}
	}
}
