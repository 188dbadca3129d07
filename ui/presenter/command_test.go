package presenter

import (
	"testing"

	"github.com/hanckmann/webcamrec/ui/view"
)

func TestCommandFor(t *testing.T) {
	cases := map[view.Key]Command{
		view.KeyEscape:    CommandQuit,
		view.KeyQ:         CommandQuit,
		view.KeyClose:     CommandQuit,
		view.KeyInterrupt: CommandQuit,
		view.KeyEnter:     CommandNewSession,
		view.KeySpace:     CommandNewSession,
		view.KeyNone:      CommandNone,
		'Q':               CommandNone,
		'x':               CommandNone,
	}
	for k, want := range cases {
		if got := CommandFor(k); got != want {
			t.Fatalf("CommandFor(%v) = %v, want %v", k, got, want)
		}
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{StateIdle: "Idle", StateRunning: "Running", StateStopping: "Stopping", StateTerminated: "Terminated", State(9): "Unknown"} {
		if s.String() != want {
			t.Fatalf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
