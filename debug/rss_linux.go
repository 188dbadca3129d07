//go:build linux

package debug

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const rssKey = "rss"

// residentSetSize returns the current resident set size from /proc.
func residentSetSize() (uint64, error) {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0, fmt.Errorf("read statm: %w", err)
	}
	return parseStatm(data, unix.Getpagesize())
}

// parseStatm reads the resident field (second, in pages) of a statm line.
func parseStatm(data []byte, pageSize int) (uint64, error) {
	fields := bytes.Fields(data)
	if len(fields) < 2 {
		return 0, fmt.Errorf("statm: unexpected content %q", data)
	}
	pages, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("statm resident: %w", err)
	}
	return pages * uint64(pageSize), nil
}
