package presenter

import "github.com/hanckmann/webcamrec/ui/view"

// Command is what the recorder does in response to a key.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandNewSession
)

func (c Command) String() string {
	switch c {
	case CommandQuit:
		return "quit"
	case CommandNewSession:
		return "new-session"
	default:
		return "none"
	}
}

// CommandFor maps a polled key to a command. The bindings are fixed:
// ESC and q quit, ENTER and SPACE start a new session. Closing the window
// or ^C on a raw terminal also quit.
func CommandFor(k view.Key) Command {
	switch k {
	case view.KeyEscape, view.KeyQ, view.KeyClose, view.KeyInterrupt:
		return CommandQuit
	case view.KeyEnter, view.KeySpace, '\n':
		return CommandNewSession
	default:
		return CommandNone
	}
}
