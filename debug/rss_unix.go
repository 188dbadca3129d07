//go:build unix && !linux

package debug

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// getrusage only reports the peak, so it is logged as such.
const rssKey = "max_rss"

// residentSetSize returns the peak resident set size reported by
// getrusage. Darwin reports bytes, the BSDs kilobytes.
func residentSetSize() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, fmt.Errorf("getrusage: %w", err)
	}
	rss := uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" && runtime.GOOS != "ios" {
		rss *= 1024
	}
	return rss, nil
}
