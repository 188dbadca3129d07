//go:build gocv

// Package cvview shows the recorder preview in an OpenCV HighGUI window.
package cvview

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"

	"github.com/hanckmann/webcamrec/ui/view"
)

// Window wraps a named gocv window. HighGUI only pumps its event queue
// inside WaitKey, so PollKey doubles as the redraw call.
type Window struct {
	win    *gocv.Window
	closed bool
	shown  bool
}

// Open creates the named window.
func Open(title string) (view.Window, error) {
	win := gocv.NewWindow(title)
	if win == nil {
		return nil, fmt.Errorf("gocv window %q", title)
	}
	return &Window{win: win}, nil
}

// Show converts img to a BGR Mat and displays it.
func (w *Window) Show(img image.Image) {
	if w.closed || img == nil {
		return
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return
	}
	defer mat.Close()
	if mat.Empty() {
		return
	}
	w.win.IMShow(mat)
	w.shown = true
}

// PollKey waits up to timeout for a key. A window closed by the user is
// reported as view.KeyClose.
func (w *Window) PollKey(timeout time.Duration) view.Key {
	if w.closed {
		return view.KeyClose
	}
	ms := int(timeout / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	code := w.win.WaitKey(ms)
	if w.shown && !w.win.IsOpen() {
		return view.KeyClose
	}
	if code < 0 {
		return view.KeyNone
	}
	return view.Key(code & 0xff)
}

// Close destroys the window. It is idempotent.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.win.Close()
}
