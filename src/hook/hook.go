// Package hook adapts the global input hook into pointer telemetry. Only
// mouse down/drag/up events are consumed; everything else on the hook
// channel is ignored.
package hook

import (
	"context"
	"time"

	gohook "github.com/robotn/gohook"
	"go.uber.org/zap"

	"selection-capture/src/gesture"
)

// Start launches the hook goroutine and posts pointer events through post.
// The goroutine stops when ctx is cancelled. post must not block; the event
// loop keeps a buffered channel behind it.
func Start(ctx context.Context, post func(gesture.Event), logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in input hook goroutine", zap.Any("panic", r))
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			logger.Error("input hook returned nil channel")
			return
		}
		defer gohook.End()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-evChan:
				if !ok {
					logger.Warn("input hook channel closed")
					return
				}
				if e, ok := convert(ev); ok {
					post(e)
				}
			}
		}
	}()
}

// convert maps a hook event to pointer telemetry. Non-pointer events and
// non-primary buttons are dropped.
func convert(ev gohook.Event) (gesture.Event, bool) {
	var kind gesture.Kind
	switch ev.Kind {
	case gohook.MouseDown:
		kind = gesture.KindDown
	case gohook.MouseDrag:
		kind = gesture.KindDrag
	case gohook.MouseUp:
		kind = gesture.KindUp
	default:
		return gesture.Event{}, false
	}

	// Button 1 is the primary button; selections never start elsewhere.
	if (ev.Kind == gohook.MouseDown || ev.Kind == gohook.MouseUp) && ev.Button != 1 {
		return gesture.Event{}, false
	}

	return gesture.Event{
		Kind: kind,
		At:   gesture.Point{X: float64(ev.X), Y: float64(ev.Y)},
		Time: time.Now(),
	}, true
}
