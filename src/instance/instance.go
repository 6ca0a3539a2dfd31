// Package instance provides single-instance detection over TCP loopback.
// Exactly one resident should own the pointer hook; a second invocation
// detects the resident by scanning a small port range and can query it for
// the most recently captured selection instead of starting a duplicate hook.
package instance

import (
	"os"
	"strconv"
)

const (
	residentHost = "127.0.0.1"

	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	lastRequest  = "LAST\n"
	nonePrefix   = "NONE"
	textPrefix   = "TEXT "

	defaultPortStart = 49700
	defaultPortEnd   = 49750
)

// portRange returns the configured loopback port range. Environment
// variables SELECTION_CAPTURE_PORT_START and SELECTION_CAPTURE_PORT_END
// override the defaults; values are clamped to [1024, 65535].
func portRange() (int, int) {
	start := defaultPortStart
	end := defaultPortEnd
	if v := os.Getenv("SELECTION_CAPTURE_PORT_START"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			start = n
		}
	}
	if v := os.Getenv("SELECTION_CAPTURE_PORT_END"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			end = n
		}
	}
	if end < start {
		start, end = end, start
	}
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	return start, end
}
