package capture

import (
	"image"
	"time"
)

// Item pairs one captured frame with the instant it was captured. It is the
// unit handed from the producer to the recorder; ownership of Image moves
// with the value.
type Item struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Release returns the pixel buffer to the frame pool. The item must not be
// used afterwards.
func (it Item) Release() { RecycleFrame(it.Image) }

// ProducerStats summarises capture loop behaviour for instrumentation.
type ProducerStats struct {
	Captures    uint64
	Failures    uint64
	AvgRead     time.Duration
	LastCapture time.Time
	Sequence    uint64
}
