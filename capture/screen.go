// Package capture provides the imaging devices the recorder can read from.
package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/vova616/screenshot"

	frames "github.com/hanckmann/webcamrec/domain/capture"
)

// Screen grabs the primary monitor. Each Read allocates a fresh frame;
// screenshot offers no way to reuse a buffer.
type Screen struct {
	mu     sync.Mutex
	rect   image.Rectangle
	grab   func(image.Rectangle) (*image.RGBA, error)
	bounds func() (image.Rectangle, error)
	open   bool
}

// NewScreen returns a device capturing the whole primary screen.
func NewScreen() *Screen {
	return &Screen{grab: screenshot.CaptureRect, bounds: screenshot.ScreenRect}
}

// Open resolves the screen geometry.
func (s *Screen) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rect, err := s.bounds()
	if err != nil {
		return fmt.Errorf("screen bounds: %w", err)
	}
	if rect.Empty() {
		return fmt.Errorf("screen bounds: empty rectangle %v", rect)
	}
	s.rect = rect
	s.open = true
	return nil
}

// Read captures one frame of the screen.
func (s *Screen) Read() (*image.RGBA, error) {
	s.mu.Lock()
	rect, open := s.rect, s.open
	s.mu.Unlock()
	if !open {
		return nil, fmt.Errorf("screen: %w: device not open", frames.ErrReadFailed)
	}
	img, err := s.grab(rect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", frames.ErrReadFailed, err)
	}
	if img == nil {
		return nil, frames.ErrReadFailed
	}
	return img, nil
}

// Release marks the device closed.
func (s *Screen) Release() error {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	return nil
}
