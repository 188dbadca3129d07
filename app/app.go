// Package app wires configuration, devices, storage and the display surface
// into a running recorder.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hanckmann/webcamrec/capture"
	"github.com/hanckmann/webcamrec/debug"
	"github.com/hanckmann/webcamrec/ui/presenter"
)

// Run records until the user quits or ctx is cancelled. It holds the root
// lock for the whole run and returns the recorder's error.
func Run(ctx context.Context, c *AppContainer) error {
	lock, err := AcquireRootLock(c.Root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			c.Logger.Warn("release root lock", "error", err)
		}
	}()

	interval := time.Duration(c.Config.Debug.IntervalS) * time.Second
	if c.Config.Debug.Enabled {
		debugCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		debug.StartGoroutineLogger(debugCtx, interval, c.Logger)
		debug.StartMemLogger(debugCtx, interval, c.Logger)
	}

	window, err := c.Opener(c.Config.Display.Title)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}

	rec := presenter.New(c.Queue, c.Producer, c.Sessions, c.Writer, window, presenter.Options{
		PollInterval:   time.Duration(c.Config.Display.PollIntervalMS) * time.Millisecond,
		StatsInterval:  interval,
		QueueWarnDepth: c.Config.Debug.QueueWarnDepth,
		Logger:         c.Logger.With("component", "recorder"),
	})
	c.Logger.Info("recording",
		"root", c.Root,
		"source", ResolveSource(c.Config.Capture.Source, capture.WebcamBackend),
		"surface", c.Config.Display.Surface,
	)
	start := time.Now()
	runErr := rec.Run(ctx)

	stats := rec.Stats()
	capStats := c.Producer.Stats()
	written := c.Writer.Stats()
	c.Logger.Info("recording finished",
		"frames", stats.Persisted,
		"write_failures", stats.WriteFailures,
		"capture_failures", capStats.Failures,
		"sessions", stats.Sessions,
		"bytes", humanize.IBytes(written.Bytes),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return runErr
}
