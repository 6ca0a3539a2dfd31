package instance

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrNoCapture is returned by QueryLast when the resident has not captured
// anything yet.
var ErrNoCapture = errors.New("resident has no captured selection")

// DetectResident scans the port range and returns (port, true) when a
// resident answers the handshake.
func DetectResident(ctx context.Context) (int, bool) {
	timeout := 300 * time.Millisecond
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < timeout {
			timeout = d
		}
	}

	start, end := portRange()
	for port := start; port <= end; port++ {
		if ping(net.JoinHostPort(residentHost, strconv.Itoa(port)), timeout) {
			return port, true
		}
	}
	return 0, false
}

// QueryLast asks the resident for its most recent capture. The second
// return is false when no resident is running.
func QueryLast(ctx context.Context) (string, bool, error) {
	port, found := DetectResident(ctx)
	if !found {
		return "", false, nil
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(residentHost, strconv.Itoa(port)), 2*time.Second)
	if err != nil {
		return "", true, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(lastRequest); err != nil {
		return "", true, err
	}
	if err := w.Flush(); err != nil {
		return "", true, err
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", true, err
	}
	line = strings.TrimRight(line, "\n")

	switch {
	case line == nonePrefix:
		return "", true, ErrNoCapture
	case strings.HasPrefix(line, textPrefix):
		text, err := strconv.Unquote(strings.TrimPrefix(line, textPrefix))
		if err != nil {
			return "", true, err
		}
		return text, true, nil
	default:
		return "", true, errors.New("malformed resident response")
	}
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(pingRequest); err != nil {
		return false
	}
	if err := w.Flush(); err != nil {
		return false
	}

	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}
