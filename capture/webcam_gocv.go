//go:build gocv

package capture

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	frames "github.com/hanckmann/webcamrec/domain/capture"
)

// WebcamBackend names the compiled-in webcam implementation.
const WebcamBackend = "gocv"

// Webcam reads frames from an OpenCV VideoCapture device.
type Webcam struct {
	index         int
	width, height int
	cam           *gocv.VideoCapture
	mat           gocv.Mat
}

// NewWebcam returns a device for camera index, asking for width x height.
func NewWebcam(index, width, height int) *Webcam {
	return &Webcam{index: index, width: width, height: height}
}

func (w *Webcam) Open() error {
	cam, err := gocv.OpenVideoCapture(w.index)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", w.index, err)
	}
	if !cam.IsOpened() {
		_ = cam.Close()
		return fmt.Errorf("open camera %d: device not available", w.index)
	}
	if w.width > 0 && w.height > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(w.width))
		cam.Set(gocv.VideoCaptureFrameHeight, float64(w.height))
	}
	w.cam = cam
	w.mat = gocv.NewMat()
	return nil
}

// Read grabs one BGR frame and converts it into a pooled RGBA frame.
func (w *Webcam) Read() (*image.RGBA, error) {
	if w.cam == nil {
		return nil, fmt.Errorf("webcam: %w: device not open", frames.ErrReadFailed)
	}
	if ok := w.cam.Read(&w.mat); !ok || w.mat.Empty() {
		return nil, frames.ErrReadFailed
	}
	img, err := w.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", frames.ErrReadFailed, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	dst := frames.AcquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst, nil
}

func (w *Webcam) Release() error {
	if w.cam == nil {
		return nil
	}
	_ = w.mat.Close()
	err := w.cam.Close()
	w.cam = nil
	return err
}
