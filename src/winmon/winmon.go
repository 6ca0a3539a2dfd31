// Package winmon tracks window lifecycle signals (resize, move, close,
// occlusion) and application switches. The validator consults it for a
// time-windowed "operation in progress" flag so drags that are really window
// manipulation never reach extraction.
package winmon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OpKind identifies a window lifecycle signal.
type OpKind string

const (
	OpResize    OpKind = "resize"
	OpMove      OpKind = "move"
	OpOpen      OpKind = "open"
	OpClose     OpKind = "close"
	OpOcclude   OpKind = "occlude"
	OpAppSwitch OpKind = "app-switch"
)

// WindowInfo is one entry of a prober snapshot.
type WindowInfo struct {
	App     string
	Focused bool
}

// Prober supplies best-effort window/application snapshots. Implementations
// run on the refresher goroutine, never on the main flow.
type Prober interface {
	Snapshot() ([]WindowInfo, error)
}

// Monitor is the time-windowed operation tracker. All methods are safe for
// concurrent use; the refresher goroutine publishes into it while the event
// loop reads.
type Monitor struct {
	mu          sync.Mutex
	lastOp      OpKind
	lastOpAt    time.Time
	activeApp   string
	onAppSwitch func(previous, current string)
	logger      *zap.Logger
}

func New(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{logger: logger}
}

// RecordOperation marks a window operation as having just happened.
func (m *Monitor) RecordOperation(kind OpKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOp = kind
	m.lastOpAt = time.Now()
	m.logger.Debug("window operation recorded", zap.String("kind", string(kind)))
}

// OperationWithin reports whether any window operation was recorded within
// the last d.
func (m *Monitor) OperationWithin(d time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.lastOpAt.IsZero() && time.Since(m.lastOpAt) <= d
}

// LastOperation returns the most recent operation, if any.
func (m *Monitor) LastOperation() (OpKind, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOp, m.lastOpAt, !m.lastOpAt.IsZero()
}

// SetActiveApp records the frontmost application. A change counts as an
// app-switch operation and fires the registered callback.
func (m *Monitor) SetActiveApp(app string) {
	m.mu.Lock()
	previous := m.activeApp
	changed := app != "" && app != previous
	if changed {
		m.activeApp = app
		m.lastOp = OpAppSwitch
		m.lastOpAt = time.Now()
	}
	cb := m.onAppSwitch
	m.mu.Unlock()

	if changed {
		m.logger.Debug("active application changed",
			zap.String("previous", previous),
			zap.String("current", app))
		if cb != nil {
			cb(previous, app)
		}
	}
}

// ActiveApp returns the last observed frontmost application name.
func (m *Monitor) ActiveApp() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeApp
}

// OnAppSwitch registers the callback fired whenever the frontmost
// application changes. Must be set before the refresher starts.
func (m *Monitor) OnAppSwitch(fn func(previous, current string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAppSwitch = fn
}

// Reset clears the operation flag. Called when gesture history is reset.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOp = ""
	m.lastOpAt = time.Time{}
}

// MinRefreshInterval is the floor for the background refresh throttle.
const MinRefreshInterval = time.Second

// StartRefresher launches the background snapshot worker. The main flow
// never blocks on it; snapshots are diffed on the worker and published via
// SetActiveApp / RecordOperation. Returns immediately; the worker stops when
// ctx is cancelled.
func (m *Monitor) StartRefresher(ctx context.Context, prober Prober, interval time.Duration) {
	if prober == nil {
		return
	}
	if interval < MinRefreshInterval {
		interval = MinRefreshInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var prevCount int
		var primed bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			infos, err := prober.Snapshot()
			if err != nil {
				m.logger.Debug("window snapshot failed", zap.Error(err))
				continue
			}

			for _, w := range infos {
				if w.Focused {
					m.SetActiveApp(w.App)
					break
				}
			}

			if primed {
				switch {
				case len(infos) > prevCount:
					m.RecordOperation(OpOpen)
				case len(infos) < prevCount:
					m.RecordOperation(OpClose)
				}
			}
			prevCount = len(infos)
			primed = true
		}
	}()
}
