package view

import (
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// Headless is a Window that displays nothing. Keys can be injected with
// Press, which makes it usable for unattended recording and in tests.
type Headless struct {
	title  string
	keys   chan Key
	shown  atomic.Uint64
	closed atomic.Bool
	once   sync.Once

	mu     sync.Mutex
	bounds image.Rectangle
}

// NewHeadless returns a headless window.
func NewHeadless(title string) *Headless {
	return &Headless{title: title, keys: make(chan Key, 16)}
}

// OpenHeadless is an Opener for Headless windows.
func OpenHeadless(title string) (Window, error) { return NewHeadless(title), nil }

// Title returns the window title.
func (h *Headless) Title() string { return h.title }

// Show records the frame bounds.
func (h *Headless) Show(img image.Image) {
	if img == nil || h.closed.Load() {
		return
	}
	h.shown.Add(1)
	h.mu.Lock()
	h.bounds = img.Bounds()
	h.mu.Unlock()
}

// Shown reports how many frames were shown and the bounds of the last one.
func (h *Headless) Shown() (uint64, image.Rectangle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown.Load(), h.bounds
}

// Press queues a key for a later PollKey. It never blocks; keys beyond the
// buffer are dropped.
func (h *Headless) Press(k Key) {
	select {
	case h.keys <- k:
	default:
	}
}

// PollKey returns an injected key or KeyNone once timeout elapsed.
func (h *Headless) PollKey(timeout time.Duration) Key {
	select {
	case k := <-h.keys:
		return k
	default:
	}
	if timeout <= 0 {
		return KeyNone
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-h.keys:
		return k
	case <-timer.C:
		return KeyNone
	}
}

// Close is idempotent.
func (h *Headless) Close() error {
	h.once.Do(func() { h.closed.Store(true) })
	return nil
}
