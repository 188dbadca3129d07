package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/hanckmann/webcamrec/domain/capture"
	"github.com/hanckmann/webcamrec/domain/session"
	"github.com/hanckmann/webcamrec/domain/storage"
	"github.com/hanckmann/webcamrec/ui/model"
	"github.com/hanckmann/webcamrec/ui/view"
)

const (
	DefaultPollInterval   = 33 * time.Millisecond
	DefaultStatsInterval  = 5 * time.Second
	DefaultQueueWarnDepth = 256
)

// ErrRecorderStarted is returned by Run on a recorder that already ran.
var ErrRecorderStarted = errors.New("recorder: already started")

// FrameSource is the consumer side of the frame queue.
type FrameSource interface {
	Drain(dst []capture.Item) []capture.Item
	Len() int
}

// Producer is the capture loop the recorder starts and stops.
type Producer interface {
	Run(ctx context.Context) error
	Stop()
}

// SessionCreator creates a new session directory and returns its path.
type SessionCreator interface {
	Create(now time.Time) (string, error)
}

// Options tune the recorder loop. Zero values select the defaults.
type Options struct {
	PollInterval   time.Duration
	StatsInterval  time.Duration
	QueueWarnDepth int
	Now            func() time.Time
	Logger         *slog.Logger
}

// Stats is a snapshot of the recorder counters.
type Stats struct {
	Persisted     uint64
	WriteFailures uint64
	Displayed     uint64
	Sessions      uint64
	Flushed       uint64
}

// Recorder drains captured frames, persists every one of them into the
// current session, shows the latest and reacts to keys. Run must be called
// on the goroutine that owns the window.
type Recorder struct {
	queue    FrameSource
	producer Producer
	sessions SessionCreator
	writer   storage.Writer
	window   view.Window
	opts     Options
	logger   *slog.Logger

	model  *model.SessionModel
	status *SessionPresenter

	state     atomic.Int32
	persisted atomic.Uint64
	failures  atomic.Uint64
	displayed atomic.Uint64
	created   atomic.Uint64
	flushed   atomic.Uint64

	mu         sync.Mutex
	sessionDir string

	batch     []capture.Item
	lastWarn  time.Time
	lastStats time.Time
}

// New wires a recorder. window may also implement view.StatusWindow, in
// which case it receives a one-line session summary.
func New(queue FrameSource, producer Producer, sessions SessionCreator, writer storage.Writer, window view.Window, opts Options) *Recorder {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = DefaultStatsInterval
	}
	if opts.QueueWarnDepth <= 0 {
		opts.QueueWarnDepth = DefaultQueueWarnDepth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Recorder{
		queue:    queue,
		producer: producer,
		sessions: sessions,
		writer:   writer,
		window:   window,
		opts:     opts,
		logger:   logger,
		model:    model.NewSessionModel(),
	}
	if sw, ok := window.(view.StatusWindow); ok {
		r.status = NewSessionPresenter(r.model, sw)
	}
	return r
}

// State reports the lifecycle state.
func (r *Recorder) State() State { return State(r.state.Load()) }

// Session returns the current session directory.
func (r *Recorder) Session() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionDir
}

// Stats returns a snapshot of the counters.
func (r *Recorder) Stats() Stats {
	return Stats{
		Persisted:     r.persisted.Load(),
		WriteFailures: r.failures.Load(),
		Displayed:     r.displayed.Load(),
		Sessions:      r.created.Load(),
		Flushed:       r.flushed.Load(),
	}
}

// Run creates the startup session, starts the producer on its own goroutine
// and loops until a quit key, a closed window, ctx cancellation or the
// producer ending on its own. Before returning it stops the producer,
// closes the window, joins the producer goroutine and persists whatever is
// still queued. The producer's error, if any, is returned.
func (r *Recorder) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrRecorderStarted
	}
	dir, err := r.sessions.Create(r.opts.Now())
	if err != nil {
		r.producer.Stop()
		_ = r.window.Close()
		r.state.Store(int32(StateTerminated))
		return fmt.Errorf("create startup session: %w", err)
	}
	r.beginSession(dir)

	var (
		wg      conc.WaitGroup
		prodErr error
		done    = make(chan struct{})
	)
	wg.Go(func() {
		defer close(done)
		prodErr = r.producer.Run(ctx)
	})

	r.lastStats = r.opts.Now()
	reason := r.loop(ctx, done)
	r.logger.Info("recorder stopping", "reason", reason)

	r.state.Store(int32(StateStopping))
	r.producer.Stop()
	if err := r.window.Close(); err != nil {
		r.logger.Warn("close window", "error", err)
	}
	recovered := wg.WaitAndRecover()
	r.flush()
	r.endSession()
	r.state.Store(int32(StateTerminated))

	stats := r.Stats()
	r.logger.Info("recorder stopped",
		"persisted", stats.Persisted,
		"write_failures", stats.WriteFailures,
		"sessions", stats.Sessions,
		"flushed", stats.Flushed,
	)
	if recovered != nil {
		return fmt.Errorf("capture goroutine: %w", recovered.AsError())
	}
	return prodErr
}

func (r *Recorder) loop(ctx context.Context, producerDone <-chan struct{}) string {
	for {
		r.step()
		select {
		case <-producerDone:
			// Pick up anything captured between the last drain and the exit.
			r.step()
			return "capture ended"
		case <-ctx.Done():
			return "interrupted"
		default:
		}

		key := r.window.PollKey(r.opts.PollInterval)
		switch CommandFor(key) {
		case CommandQuit:
			return "quit key " + key.String()
		case CommandNewSession:
			r.newSession()
		}
		r.tick()
	}
}

// step drains the queue, persists every item and shows the last one. An
// empty drain leaves the display untouched.
func (r *Recorder) step() {
	r.warnBacklog()
	r.batch = r.queue.Drain(r.batch[:0])
	if len(r.batch) == 0 {
		return
	}
	for _, it := range r.batch {
		r.persist(it)
	}
	latest := r.batch[len(r.batch)-1]
	r.window.Show(latest.Image)
	r.displayed.Add(1)
	r.releaseBatch()
}

// flush persists what is left in the queue after the producer was joined.
func (r *Recorder) flush() {
	r.batch = r.queue.Drain(r.batch[:0])
	for _, it := range r.batch {
		r.persist(it)
	}
	r.flushed.Add(uint64(len(r.batch)))
	r.releaseBatch()
}

func (r *Recorder) releaseBatch() {
	for i := range r.batch {
		r.batch[i].Release()
		r.batch[i] = capture.Item{}
	}
	r.batch = r.batch[:0]
}

func (r *Recorder) persist(it capture.Item) {
	dir := r.Session()
	path := filepath.Join(dir, session.FrameName(it.CapturedAt))
	if err := r.writer.Write(path, it.Image); err != nil {
		n := r.failures.Add(1)
		r.model.OnFailure()
		r.logger.Warn("frame write failed", "path", path, "sequence", it.Sequence, "error", err, "failures", n)
		return
	}
	r.persisted.Add(1)
	r.model.OnFrame(it.CapturedAt)
}

// newSession switches to a fresh directory. On failure the current session
// stays active.
func (r *Recorder) newSession() {
	now := r.opts.Now()
	dir, err := r.sessions.Create(now)
	if err != nil {
		r.logger.Error("new session failed; keeping current session", "session", r.Session(), "error", err)
		return
	}
	r.endSession()
	r.beginSession(dir)
}

func (r *Recorder) beginSession(dir string) {
	now := r.opts.Now()
	r.mu.Lock()
	r.sessionDir = dir
	r.mu.Unlock()
	r.created.Add(1)
	r.model.Begin(dir, now)
	r.logger.Info("session started", "session", dir)
	r.status.Tick(now)
}

func (r *Recorder) endSession() {
	now := r.opts.Now()
	snap := r.model.Values(now)
	r.model.End(now)
	r.logger.Info("session finished",
		"session", snap.Dir,
		"frames", snap.Frames,
		"elapsed", snap.Elapsed.Round(time.Millisecond).String(),
	)
}

func (r *Recorder) tick() {
	now := r.opts.Now()
	r.status.Tick(now)
	if now.Sub(r.lastStats) < r.opts.StatsInterval {
		return
	}
	r.lastStats = now
	stats := r.Stats()
	r.logger.Debug("recorder.stats",
		"persisted", stats.Persisted,
		"write_failures", stats.WriteFailures,
		"displayed", stats.Displayed,
		"queue_depth", r.queue.Len(),
		"session", r.Session(),
	)
}

func (r *Recorder) warnBacklog() {
	depth := r.queue.Len()
	if depth < r.opts.QueueWarnDepth {
		return
	}
	now := r.opts.Now()
	if !r.lastWarn.IsZero() && now.Sub(r.lastWarn) < r.opts.StatsInterval {
		return
	}
	r.lastWarn = now
	r.logger.Warn("frame queue backlog", "depth", depth, "warn_depth", r.opts.QueueWarnDepth)
}
