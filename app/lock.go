package app

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRootBusy reports that another recorder holds the lock for the root.
var ErrRootBusy = errors.New("another recorder is already writing to this root")

// RootLock keeps a single recorder per root folder. The lock file lives in
// the OS temp directory so the root itself only ever receives data/.
type RootLock struct {
	fl *flock.Flock
}

// LockPath returns the lock file used for root.
func LockPath(root string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(filepath.Clean(root)))
	return filepath.Join(os.TempDir(), fmt.Sprintf("webcamrec-%016x.lock", h.Sum64()))
}

// AcquireRootLock takes the lock without waiting.
func AcquireRootLock(root string) (*RootLock, error) {
	fl := flock.New(LockPath(root))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootBusy, root)
	}
	return &RootLock{fl: fl}, nil
}

// Release unlocks. The lock file is left behind for reuse.
func (l *RootLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
