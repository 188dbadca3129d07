// Package storage persists captured frames as lossless PNG files.
package storage

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"
)

// Writer persists one image at the given path. Implementations must not
// leave a partial file behind on failure.
type Writer interface {
	Write(path string, img image.Image) error
}

// Stats reports what a PNGWriter has written so far.
type Stats struct {
	Files    uint64
	Bytes    uint64
	Failures uint64
}

// PNGWriter encodes frames with image/png onto an afero filesystem.
type PNGWriter struct {
	fs      afero.Fs
	encoder png.Encoder

	files    atomic.Uint64
	bytes    atomic.Uint64
	failures atomic.Uint64
}

// NewPNGWriter returns a writer on fsys. Compression favours speed since a
// frame is written on every iteration of the recording loop.
func NewPNGWriter(fsys afero.Fs) *PNGWriter {
	w := &PNGWriter{fs: fsys}
	w.encoder = png.Encoder{
		CompressionLevel: png.BestSpeed,
		BufferPool:       &bufferPool{},
	}
	return w
}

// Write encodes img to path. The parent directory must exist.
func (w *PNGWriter) Write(path string, img image.Image) (err error) {
	if img == nil {
		w.failures.Add(1)
		return fmt.Errorf("write %s: nil image", filepath.Base(path))
	}
	f, err := w.fs.Create(path)
	if err != nil {
		w.failures.Add(1)
		return fmt.Errorf("create frame file: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		w.failures.Add(1)
		_ = w.fs.Remove(path)
	}()

	cw := &countingWriter{w: f}
	bw := bufio.NewWriterSize(cw, 64<<10)
	if err = w.encoder.Encode(bw, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err = bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush png: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close frame file: %w", err)
	}
	w.files.Add(1)
	w.bytes.Add(uint64(cw.n))
	return nil
}

// Stats returns a snapshot of the counters.
func (w *PNGWriter) Stats() Stats {
	return Stats{
		Files:    w.files.Load(),
		Bytes:    w.bytes.Load(),
		Failures: w.failures.Load(),
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// bufferPool implements png.EncoderBufferPool on top of sync.Pool.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	if b, ok := p.pool.Get().(*png.EncoderBuffer); ok {
		return b
	}
	return nil
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}
