//go:build gstreamer && !gocv

package capture

import (
	"fmt"
	"image"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	frames "github.com/hanckmann/webcamrec/domain/capture"
)

// WebcamBackend names the compiled-in webcam implementation.
const WebcamBackend = "gstreamer"

// Webcam pulls RGBA frames from a v4l2src pipeline through an appsink.
type Webcam struct {
	index         int
	width, height int
	pipeline      *gst.Pipeline
	sink          *app.Sink
}

// NewWebcam returns a device for /dev/video<index>, scaled to width x height.
func NewWebcam(index, width, height int) *Webcam {
	return &Webcam{index: index, width: width, height: height}
}

func (w *Webcam) Open() (err error) {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer resetOnError(pipeline, &err)
	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return fmt.Errorf("create v4l2src: %w", err)
	}
	src.SetProperty("device", fmt.Sprintf("/dev/video%d", w.index))
	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return fmt.Errorf("create videoconvert: %w", err)
	}
	scale, err := gst.NewElement("videoscale")
	if err != nil {
		return fmt.Errorf("create videoscale: %w", err)
	}
	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return fmt.Errorf("create capsfilter: %w", err)
	}
	capsfilter.SetProperty("caps", gst.NewCapsFromString(fmt.Sprintf(
		"video/x-raw,format=RGBA,width=%d,height=%d", w.width, w.height,
	)))
	sink, err := app.NewAppSink()
	if err != nil {
		return fmt.Errorf("create appsink: %w", err)
	}
	// Every frame is recorded, so the sink must neither drop nor sync to
	// the clock.
	sink.SetProperty("sync", false)
	sink.SetProperty("drop", false)

	if err := pipeline.AddMany(src, convert, scale, capsfilter, sink.Element); err != nil {
		return fmt.Errorf("add elements: %w", err)
	}
	if err := gst.ElementLinkMany(src, convert, scale, capsfilter, sink.Element); err != nil {
		return fmt.Errorf("link elements: %w", err)
	}
	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}
	w.pipeline = pipeline
	w.sink = sink
	return nil
}

type stateSetter interface {
	SetState(gst.State) error
}

// resetOnError returns a partly built pipeline to NULL so its elements
// release the device.
func resetOnError(p stateSetter, err *error) {
	if *err != nil {
		_ = p.SetState(gst.StateNull)
	}
}

// Read blocks until the next sample and copies it into a pooled frame.
func (w *Webcam) Read() (*image.RGBA, error) {
	if w.sink == nil {
		return nil, fmt.Errorf("webcam: %w: device not open", frames.ErrReadFailed)
	}
	sample := w.sink.PullSample()
	if sample == nil {
		return nil, fmt.Errorf("%w: end of stream", frames.ErrReadFailed)
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return nil, frames.ErrReadFailed
	}
	mapInfo := buffer.Map(gst.MapRead)
	defer buffer.Unmap()
	data := mapInfo.Bytes()

	rect := image.Rect(0, 0, w.width, w.height)
	if len(data) < rect.Dx()*rect.Dy()*4 {
		return nil, fmt.Errorf("%w: short sample of %d bytes", frames.ErrReadFailed, len(data))
	}
	img := frames.AcquireFrame(rect)
	copy(img.Pix, data)
	return img, nil
}

func (w *Webcam) Release() error {
	if w.pipeline == nil {
		return nil
	}
	err := w.pipeline.SetState(gst.StateNull)
	w.pipeline = nil
	w.sink = nil
	return err
}
