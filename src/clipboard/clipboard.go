// Package clipboard wraps the system pasteboard as a single shared text slot
// with a monotonically increasing change counter. Extraction strategies that
// mutate it are responsible for restoring prior content; this package only
// guarantees serialized writes and change observation.
package clipboard

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.design/x/clipboard"
)

// Board is the capability consumed by extraction strategies. Tests inject a
// fake; production uses System.
type Board interface {
	Read() string
	Write(text string) error
	Clear() error
	// ChangeCount increases every time the clipboard content changes,
	// including our own writes.
	ChangeCount() uint64
}

// System is the real pasteboard. The change counter is maintained from a
// watch goroutine started by Init.
type System struct {
	writeMu sync.Mutex
	count   atomic.Uint64
	cancel  context.CancelFunc
}

// Init initializes the platform clipboard and starts change tracking.
func Init() (*System, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}

	s := &System{}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	ch := clipboard.Watch(ctx, clipboard.FmtText)
	go func() {
		for range ch {
			s.count.Add(1)
		}
	}()

	return s, nil
}

func (s *System) Read() string {
	return string(clipboard.Read(clipboard.FmtText))
}

// Write performs a mutex-guarded clipboard write to prevent corruption under
// parallel writes.
func (s *System) Write(text string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	s.count.Add(1)
	return nil
}

func (s *System) Clear() error {
	return s.Write("")
}

func (s *System) ChangeCount() uint64 {
	return s.count.Load()
}

// Close stops change tracking.
func (s *System) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
