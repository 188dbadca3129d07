//go:build !linux

package view

import (
	"fmt"

	"golang.org/x/term"
)

// enterCbreak falls back to full raw mode; ^C is then read as KeyInterrupt.
func enterCbreak(fd int) (func() error, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	return func() error { return term.Restore(fd, state) }, nil
}
