package model

import (
	"path/filepath"
	"time"
)

// SessionModel tracks the active recording session and the run totals.
// It is decoupled from the UI; presenters call Values() and update views.
// The zero value is ready to use. Not safe for concurrent use: the recorder
// loop is its only writer.
type SessionModel struct {
	active   bool
	dir      string
	started  time.Time
	frames   uint64
	sessions int
	total    uint64
	failures uint64
	lastSeen time.Time
}

// Snapshot is a read-only view of the model at one instant.
type Snapshot struct {
	Session     string
	Dir         string
	Started     time.Time
	Elapsed     time.Duration
	Frames      uint64
	Sessions    int
	TotalFrames uint64
	Failures    uint64
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// Begin switches to a new session directory created at now. The frame
// counter of the previous session is discarded; run totals carry over.
func (m *SessionModel) Begin(dir string, now time.Time) {
	if m == nil {
		return
	}
	m.active = true
	m.dir = dir
	m.started = now
	m.lastSeen = now
	m.frames = 0
	m.sessions++
}

// OnFrame records a frame persisted into the active session.
func (m *SessionModel) OnFrame(capturedAt time.Time) {
	if m == nil || !m.active {
		return
	}
	m.frames++
	m.total++
	if capturedAt.After(m.lastSeen) {
		m.lastSeen = capturedAt
	}
}

// OnFailure records a frame that could not be persisted.
func (m *SessionModel) OnFailure() {
	if m == nil {
		return
	}
	m.failures++
}

// End marks the session finished. Values stays at the last reading.
func (m *SessionModel) End(now time.Time) {
	if m == nil || !m.active {
		return
	}
	if now.After(m.lastSeen) {
		m.lastSeen = now
	}
	m.active = false
}

// Active reports whether a session is open.
func (m *SessionModel) Active() bool { return m != nil && m.active }

// Dir returns the active session directory, or "" before the first Begin.
func (m *SessionModel) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

// Values returns a snapshot of the model. Elapsed is measured against now
// while the session is active and frozen after End.
func (m *SessionModel) Values(now time.Time) Snapshot {
	if m == nil {
		return Snapshot{}
	}
	s := Snapshot{
		Dir:         m.dir,
		Started:     m.started,
		Frames:      m.frames,
		Sessions:    m.sessions,
		TotalFrames: m.total,
		Failures:    m.failures,
	}
	if m.dir != "" {
		s.Session = filepath.Base(m.dir)
	}
	if m.started.IsZero() {
		return s
	}
	end := m.lastSeen
	if m.active && now.After(end) {
		end = now
	}
	s.Elapsed = end.Sub(m.started)
	return s
}
