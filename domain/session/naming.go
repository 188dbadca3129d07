package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DataDir is the subdirectory of the root that holds all sessions.
	DataDir = "data"

	framePrefix = "frame_"
	frameExt    = ".png"
	// Go layouts only accept fractional seconds after '.' or ','; the
	// microseconds are appended separately.
	secondLayout = "20060102-150405"
)

// Name formats t as YYYYMMDD-HHMMSS-ffffff (microseconds, zero padded) so
// that lexicographic order matches chronological order.
func Name(t time.Time) string {
	return fmt.Sprintf("%s-%06d", t.Format(secondLayout), t.Nanosecond()/int(time.Microsecond))
}

// FrameName returns the file name a frame captured at t is persisted under.
func FrameName(t time.Time) string {
	return framePrefix + Name(t) + frameExt
}

// ParseName reverses Name in the given location.
func ParseName(name string, loc *time.Location) (time.Time, error) {
	idx := strings.LastIndexByte(name, '-')
	if idx != len(secondLayout) || len(name)-idx-1 != 6 {
		return time.Time{}, fmt.Errorf("invalid session name %q", name)
	}
	t, err := time.ParseInLocation(secondLayout, name[:idx], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid session name %q: %w", name, err)
	}
	micros, err := strconv.Atoi(name[idx+1:])
	if err != nil || micros < 0 {
		return time.Time{}, fmt.Errorf("invalid session name %q: bad fraction", name)
	}
	return t.Add(time.Duration(micros) * time.Microsecond), nil
}

// ParseFrameName extracts the capture time from a frame file name.
func ParseFrameName(name string, loc *time.Location) (time.Time, error) {
	if !strings.HasPrefix(name, framePrefix) || !strings.HasSuffix(name, frameExt) {
		return time.Time{}, fmt.Errorf("invalid frame name %q", name)
	}
	return ParseName(strings.TrimSuffix(strings.TrimPrefix(name, framePrefix), frameExt), loc)
}
