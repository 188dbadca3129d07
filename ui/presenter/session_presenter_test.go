package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/hanckmann/webcamrec/ui/model"
)

type statusRecorder struct{ texts []string }

func (s *statusRecorder) SetStatus(text string) { s.texts = append(s.texts, text) }

func TestSessionPresenter_PushesOnlyChanges(t *testing.T) {
	m := model.NewSessionModel()
	v := &statusRecorder{}
	p := NewSessionPresenter(m, v)
	base := time.Unix(0, 0)

	m.Begin("/rec/data/19700101-000000-000000", base)
	p.Tick(base)
	p.Tick(base)
	if len(v.texts) != 1 {
		t.Fatalf("identical status should be pushed once, got %v", v.texts)
	}

	for i := 0; i < 1200; i++ {
		m.OnFrame(base)
	}
	p.Tick(base.Add(65 * time.Second))
	last := v.texts[len(v.texts)-1]
	for _, want := range []string{"19700101-000000-000000", "1,200 frames", "01:05"} {
		if !strings.Contains(last, want) {
			t.Fatalf("status %q missing %q", last, want)
		}
	}
}

func TestStatusText_Failures(t *testing.T) {
	text := StatusText(model.Snapshot{Session: "s", Failures: 3})
	if !strings.Contains(text, "3 write failures") {
		t.Fatalf("status %q should mention failures", text)
	}
	if StatusText(model.Snapshot{}) != "no session" {
		t.Fatalf("empty snapshot should read no session")
	}
}

func TestSessionPresenter_NilView(t *testing.T) {
	p := NewSessionPresenter(model.NewSessionModel(), nil)
	p.Tick(time.Now())
}
