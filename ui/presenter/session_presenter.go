package presenter

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hanckmann/webcamrec/ui/model"
	"github.com/hanckmann/webcamrec/ui/view"
)

// SessionPresenter formats the session model into the window status line.
type SessionPresenter struct {
	sess *model.SessionModel
	view view.StatusWindow
	last string
}

// NewSessionPresenter returns a new SessionPresenter. A nil view makes Tick
// a no-op.
func NewSessionPresenter(sess *model.SessionModel, v view.StatusWindow) *SessionPresenter {
	return &SessionPresenter{sess: sess, view: v}
}

// Tick pushes the current values to the view when the text changed.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.view == nil {
		return
	}
	text := StatusText(p.sess.Values(now))
	if text == p.last {
		return
	}
	p.last = text
	p.view.SetStatus(text)
}

// StatusText renders a snapshot as one status line.
func StatusText(s model.Snapshot) string {
	if s.Session == "" {
		return "no session"
	}
	seconds := int(s.Elapsed.Seconds())
	min, sec := seconds/60, seconds%60
	text := fmt.Sprintf("Session %s: %s frames, %02d:%02d | Total: %s frames in %d sessions",
		s.Session, humanize.Comma(int64(s.Frames)), min, sec, humanize.Comma(int64(s.TotalFrames)), s.Sessions)
	if s.Failures > 0 {
		text += fmt.Sprintf(" | %d write failures", s.Failures)
	}
	return text
}
