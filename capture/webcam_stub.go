//go:build !gocv && !gstreamer

package capture

import (
	"errors"
	"image"
)

// WebcamBackend names the compiled-in webcam implementation.
const WebcamBackend = "none"

// ErrNoWebcamBackend is returned by Open when the binary was built without
// a webcam backend.
var ErrNoWebcamBackend = errors.New("webcam support not compiled in; rebuild with -tags gocv or -tags gstreamer")

// Webcam is a placeholder that cannot be opened.
type Webcam struct{ index int }

// NewWebcam returns a webcam whose Open always fails.
func NewWebcam(index, width, height int) *Webcam {
	return &Webcam{index: index}
}

func (w *Webcam) Open() error {
	return ErrNoWebcamBackend
}

func (w *Webcam) Read() (*image.RGBA, error) {
	return nil, ErrNoWebcamBackend
}

func (w *Webcam) Release() error {
	return nil
}
