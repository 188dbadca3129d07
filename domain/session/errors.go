package session

import (
	"errors"
	"fmt"
)

var (
	ErrRootNotFound = errors.New("root path does not exist")
	ErrRootNotDir   = errors.New("root path is not a directory")
)

// ConfigurationError reports an unusable root folder. It is fatal and is
// raised before any capture starts.
type ConfigurationError struct {
	Root string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Root)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
