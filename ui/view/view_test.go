package view

import (
	"bytes"
	"image"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	cases := []struct {
		in   string
		want []Key
	}{
		{"q", []Key{KeyQ}},
		{"\r", []Key{KeyEnter}},
		{"\n", []Key{KeyEnter}},
		{" ", []Key{KeySpace}},
		{"\x1b", []Key{KeyEscape}},
		{"\x03", []Key{KeyInterrupt}},
		{"\x1b[A", nil},
		{"\x1b[1;5Cq", []Key{KeyQ}},
		{"\x1bOP", nil},
		{"ab", []Key{'a', 'b'}},
	}
	for _, tc := range cases {
		got := ParseKeys([]byte(tc.in))
		if len(got) != len(tc.want) {
			t.Fatalf("ParseKeys(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("ParseKeys(%q)[%d] = %v, want %v", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestKeyString(t *testing.T) {
	if KeyEscape.String() != "escape" || KeyQ.String() != "q" || Key(200).String() != "key(200)" {
		t.Fatalf("unexpected key names: %s %s %s", KeyEscape, KeyQ, Key(200))
	}
}

func TestHeadless_PollKey(t *testing.T) {
	h := NewHeadless("rec")
	start := time.Now()
	if k := h.PollKey(20 * time.Millisecond); k != KeyNone {
		t.Fatalf("expected KeyNone, got %v", k)
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Fatalf("PollKey returned before its timeout")
	}

	h.Press(KeySpace)
	if k := h.PollKey(time.Second); k != KeySpace {
		t.Fatalf("expected space, got %v", k)
	}
	if k := h.PollKey(0); k != KeyNone {
		t.Fatalf("zero timeout should not wait, got %v", k)
	}
}

func TestHeadless_ShowAfterClose(t *testing.T) {
	h := NewHeadless("rec")
	h.Show(image.NewRGBA(image.Rect(0, 0, 4, 3)))
	n, b := h.Shown()
	if n != 1 || b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("unexpected shown state %d %v", n, b)
	}
	_ = h.Close()
	_ = h.Close()
	h.Show(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if n, _ := h.Shown(); n != 1 {
		t.Fatalf("show after close must be ignored, got %d", n)
	}
}

func TestTerminal_ReadsKeysFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	term, err := NewTerminal("rec", r, &out)
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	defer term.Close()

	if _, err := w.Write([]byte(" q")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if k := term.PollKey(time.Second); k != KeySpace {
		t.Fatalf("expected space, got %v", k)
	}
	if k := term.PollKey(time.Second); k != KeyQ {
		t.Fatalf("expected q, got %v", k)
	}

	term.Show(image.NewRGBA(image.Rect(0, 0, 64, 48)))
	term.SetStatus("session A")
	term.SetStatus("session A")
	if got := strings.Count(out.String(), "session A [64x48]"); got != 1 {
		t.Fatalf("status should be printed once, got %d in %q", got, out.String())
	}
}
