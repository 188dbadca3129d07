package capture

import (
	"errors"
	"image"
)

// ErrReadFailed reports a single unsuccessful device read. Producers treat it
// as recoverable.
var ErrReadFailed = errors.New("capture: failed to grab frame")

// Device is an imaging source owned by exactly one producer. Open is called
// once before the first Read, Release once after the last.
type Device interface {
	Open() error
	Read() (*image.RGBA, error)
	Release() error
}
