// Package view defines the display surface contract used by the recorder and
// the surfaces that need no GUI toolkit.
package view

import (
	"image"
	"strconv"
	"time"
)

// Key is a key code returned by PollKey. Printable keys use their ASCII
// value; KeyNone means nothing was pressed within the poll interval.
type Key int

const (
	KeyNone      Key = -1
	KeyInterrupt Key = 3 // ^C delivered as a byte by a raw terminal
	KeyEnter     Key = 13
	KeyEscape    Key = 27
	KeySpace     Key = ' '
	KeyQ         Key = 'q'
	// KeyClose is reported once the user closed the window through the
	// window manager.
	KeyClose Key = 1 << 16
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyInterrupt:
		return "interrupt"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	case KeySpace:
		return "space"
	case KeyClose:
		return "close"
	}
	if k > ' ' && k < 0x7f {
		return string(rune(k))
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// Window is a named display surface. All methods are called from the
// goroutine that opened it.
type Window interface {
	// Show replaces the displayed image. The image is only valid for the
	// duration of the call.
	Show(img image.Image)
	// PollKey waits up to timeout for a key press.
	PollKey(timeout time.Duration) Key
	Close() error
}

// StatusWindow is implemented by surfaces that can display a line of text
// next to the frame.
type StatusWindow interface {
	SetStatus(text string)
}

// Opener creates a window with the given title.
type Opener func(title string) (Window, error)
