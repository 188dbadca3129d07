package view

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Terminal is a Window backed by the controlling terminal. It cannot draw
// frames; Show only updates the frame geometry on the status line. Single
// key presses are read from stdin without waiting for a newline.
type Terminal struct {
	title string
	in    *os.File
	out   io.Writer
	tty   bool

	keys    chan Key
	restore func() error

	mu     sync.Mutex
	status string
	frame  image.Rectangle
	once   sync.Once
}

// OpenTerminal is an Opener for the process terminal.
func OpenTerminal(title string) (Window, error) {
	return NewTerminal(title, os.Stdin, os.Stdout)
}

// NewTerminal switches in to cbreak mode when it is a terminal and starts
// reading keys from it.
func NewTerminal(title string, in *os.File, out io.Writer) (*Terminal, error) {
	if in == nil {
		return nil, errors.New("terminal: nil input")
	}
	t := &Terminal{
		title: title,
		in:    in,
		out:   out,
		tty:   isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()),
		keys:  make(chan Key, 64),
	}
	if t.tty {
		restore, err := enterCbreak(int(in.Fd()))
		if err != nil {
			return nil, fmt.Errorf("terminal: %w", err)
		}
		t.restore = restore
	}
	t.printf("%s: ENTER/SPACE new session, ESC/q quit\n", title)
	// The reader blocks in Read until the process exits.
	go t.readLoop()
	return t, nil
}

func (t *Terminal) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		for _, k := range ParseKeys(buf[:n]) {
			select {
			case t.keys <- k:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

// ParseKeys turns one chunk read from a terminal into key presses. An
// escape byte that starts a CSI or SS3 sequence (arrow keys, function keys)
// is swallowed together with the sequence instead of reading as ESC.
func ParseKeys(chunk []byte) []Key {
	var keys []Key
	for i := 0; i < len(chunk); i++ {
		b := chunk[i]
		switch {
		case b == 0x1b && i+1 < len(chunk) && (chunk[i+1] == '[' || chunk[i+1] == 'O'):
			i += 2
			for i < len(chunk) && (chunk[i] < 0x40 || chunk[i] > 0x7e) {
				i++
			}
		case b == '\r' || b == '\n':
			keys = append(keys, KeyEnter)
		default:
			keys = append(keys, Key(b))
		}
	}
	return keys
}

// Show notes the size of the latest frame.
func (t *Terminal) Show(img image.Image) {
	if img == nil {
		return
	}
	t.mu.Lock()
	t.frame = img.Bounds()
	t.mu.Unlock()
}

// SetStatus redraws the status line when the text changed.
func (t *Terminal) SetStatus(text string) {
	t.mu.Lock()
	if text == t.status {
		t.mu.Unlock()
		return
	}
	t.status = text
	frame := t.frame
	t.mu.Unlock()
	if t.tty {
		t.printf("\r\x1b[2K%s [%dx%d]", text, frame.Dx(), frame.Dy())
		return
	}
	t.printf("%s [%dx%d]\n", text, frame.Dx(), frame.Dy())
}

// PollKey waits up to timeout for a key.
func (t *Terminal) PollKey(timeout time.Duration) Key {
	select {
	case k := <-t.keys:
		return k
	default:
	}
	if timeout <= 0 {
		return KeyNone
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-t.keys:
		return k
	case <-timer.C:
		return KeyNone
	}
}

// Close restores the terminal mode. It is idempotent.
func (t *Terminal) Close() error {
	var err error
	t.once.Do(func() {
		if t.tty {
			t.printf("\r\n")
		}
		if t.restore != nil {
			err = t.restore()
		}
	})
	return err
}

func (t *Terminal) printf(format string, args ...any) {
	if t.out == nil {
		return
	}
	_, _ = fmt.Fprintf(t.out, format, args...)
}
