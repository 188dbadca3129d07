package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	// DefaultRetryDelay is the pause after a failed read.
	DefaultRetryDelay = 10 * time.Millisecond
	statsLogInterval  = 5 * time.Second
)

// ErrProducerRunning is returned by Run when the producer is already running.
var ErrProducerRunning = errors.New("capture: producer already running")

// Enqueuer accepts captured items. Put must not block.
type Enqueuer interface {
	Put(Item)
}

// Producer owns a capture device and feeds every frame it reads into an
// Enqueuer until stopped. Use NewProducer to construct an instance.
type Producer struct {
	device     Device
	queue      Enqueuer
	logger     *slog.Logger
	retryDelay time.Duration
	now        func() time.Time
	sleep      func(time.Duration)

	stopped   atomic.Bool
	running   atomic.Bool
	captures  atomic.Uint64
	failures  atomic.Uint64
	readNanos atomic.Uint64
	sequence  atomic.Uint64
	lastNanos atomic.Int64
}

// ProducerOption customises a Producer.
type ProducerOption func(*Producer)

// WithRetryDelay sets the pause after a failed read.
func WithRetryDelay(d time.Duration) ProducerOption {
	return func(p *Producer) {
		if d >= 0 {
			p.retryDelay = d
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ProducerOption {
	return func(p *Producer) {
		if now != nil {
			p.now = now
		}
	}
}

// WithSleep overrides how the producer waits after a failed read.
func WithSleep(sleep func(time.Duration)) ProducerOption {
	return func(p *Producer) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// NewProducer constructs a producer reading from device into queue.
func NewProducer(device Device, queue Enqueuer, logger *slog.Logger, opts ...ProducerOption) *Producer {
	p := &Producer{
		device:     device,
		queue:      queue,
		logger:     logger,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run opens the device and captures until Stop is called or ctx is done.
// Read failures are logged and retried after the retry delay; they never end
// the loop. The device is released before Run returns. Stop takes effect at
// the next iteration, so a blocking Read delays the return.
func (p *Producer) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrProducerRunning
	}
	defer p.running.Store(false)

	if err := p.device.Open(); err != nil {
		return fmt.Errorf("open capture device: %w", err)
	}
	defer func() {
		if err := p.device.Release(); err != nil && p.logger != nil {
			p.logger.Error("release capture device", "error", err)
		}
	}()

	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()
	for !p.stopped.Load() && ctx.Err() == nil {
		start := time.Now()
		img, err := p.device.Read()
		if err != nil || img == nil {
			if err == nil {
				err = ErrReadFailed
			}
			n := p.failures.Add(1)
			if p.logger != nil {
				p.logger.Warn("capture read failed", "error", err, "failures", n)
			}
			p.sleep(p.retryDelay)
			continue
		}

		p.readNanos.Add(uint64(time.Since(start).Nanoseconds()))
		p.captures.Add(1)
		now := p.now()
		p.lastNanos.Store(now.UnixNano())
		p.queue.Put(Item{Image: img, CapturedAt: now, Sequence: p.sequence.Add(1)})

		select {
		case <-logTicker.C:
			p.logStats()
		default:
		}
	}
	return nil
}

// Stop asks the capture loop to exit. It is idempotent, never blocks and may
// be called before Run, in which case Run returns without capturing.
func (p *Producer) Stop() { p.stopped.Store(true) }

// Terminate is an alias for Stop.
func (p *Producer) Terminate() { p.Stop() }

// Running reports whether Run is in progress.
func (p *Producer) Running() bool { return p.running.Load() }

// Stats returns a snapshot of the capture counters.
func (p *Producer) Stats() ProducerStats {
	captures := p.captures.Load()
	var avg time.Duration
	if total := p.readNanos.Load(); captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	var last time.Time
	if n := p.lastNanos.Load(); n != 0 {
		last = time.Unix(0, n)
	}
	return ProducerStats{
		Captures:    captures,
		Failures:    p.failures.Load(),
		AvgRead:     avg,
		LastCapture: last,
		Sequence:    p.sequence.Load(),
	}
}

func (p *Producer) logStats() {
	if p.logger == nil {
		return
	}
	stats := p.Stats()
	p.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_read", stats.AvgRead,
		"sequence", stats.Sequence,
	)
}
