// Package session owns the mutable per-interaction state: the gesture
// recorder, the active application, and the pending delayed extraction.
// State that would otherwise be process-wide globals lives here with an
// explicit reset-on-new-pointer-down rule.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/gesture"
)

// Session serializes one interaction at a time. A new pointer-down cancels
// any pending delayed extraction from the previous interaction; switching
// the active application resets gesture history.
type Session struct {
	mu       sync.Mutex
	recorder *gesture.Recorder
	app      string

	nextID    uint64
	pendingID uint64
	timer     *time.Timer
	closed    bool

	logger *zap.Logger
}

func New(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		recorder: gesture.NewRecorder(),
		logger:   logger,
	}
}

// PointerDown begins a new interaction, cancelling whatever the previous
// one still had scheduled.
func (s *Session) PointerDown(ev gesture.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.recorder.Begin(ev)
}

// PointerDrag feeds drag telemetry into the current interaction.
func (s *Session) PointerDrag(ev gesture.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder.Observe(ev)
}

// PointerUp completes the interaction. False on a spurious pointer-up.
func (s *Session) PointerUp(ev gesture.Event) (gesture.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.End(ev)
}

// History returns recent completed-interaction samples for sequence
// analysis.
func (s *Session) History() []gesture.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.History()
}

// ActiveApp returns the application the session is currently bound to.
func (s *Session) ActiveApp() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app
}

// SetActiveApp binds the session to an application. A change resets gesture
// history and cancels any pending extraction.
func (s *Session) SetActiveApp(app string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app == s.app {
		return
	}
	s.logger.Debug("session rebound to application",
		zap.String("previous", s.app),
		zap.String("current", app))
	s.app = app
	s.recorder.Reset()
	s.cancelPendingLocked()
}

// Schedule arms the delayed extraction for the current interaction and
// returns its id. The callback fires on a timer goroutine only if the task
// is still the pending one when the delay elapses; callers post back into
// their own loop for processing.
func (s *Session) Schedule(delay time.Duration, fn func(id uint64)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.cancelPendingLocked()

	s.nextID++
	id := s.nextID
	s.pendingID = id
	s.timer = time.AfterFunc(delay, func() {
		if s.claim(id) {
			fn(id)
		}
	})
	return id
}

// CancelPending cancels the scheduled extraction, if any.
func (s *Session) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
}

// Close tears the session down, cancelling any pending work.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelPendingLocked()
}

// claim consumes the pending slot if id is still current.
func (s *Session) claim(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pendingID != id {
		return false
	}
	s.pendingID = 0
	s.timer = nil
	return true
}

func (s *Session) cancelPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pendingID != 0 {
		s.logger.Debug("pending extraction cancelled", zap.Uint64("id", s.pendingID))
		s.pendingID = 0
	}
}
