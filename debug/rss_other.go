//go:build !unix && !windows

package debug

import "errors"

const rssKey = "rss"

func residentSetSize() (uint64, error) {
	return 0, errors.New("not supported on this platform")
}
