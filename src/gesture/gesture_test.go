package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGeometry(t *testing.T) {
	rec := Record{
		MouseDown: Point{X: 100, Y: 100},
		MouseUp:   Point{X: 400, Y: 105},
	}

	assert.InDelta(t, 300.04, rec.Distance(), 0.01)
	assert.Equal(t, 300.0, rec.Width())
	assert.Equal(t, 5.0, rec.Height())
	assert.InDelta(t, 60.0, rec.AspectRatio(), 0.001)
}

func TestAspectRatioFloorsShorterAxis(t *testing.T) {
	// Perfectly straight drag: shorter axis is 0, floored at 1px.
	rec := Record{
		MouseDown: Point{X: 0, Y: 50},
		MouseUp:   Point{X: 200, Y: 50},
	}
	assert.Equal(t, 200.0, rec.AspectRatio())

	// Vertical drags use the same floor.
	rec = Record{
		MouseDown: Point{X: 50, Y: 0},
		MouseUp:   Point{X: 50, Y: 120},
	}
	assert.Equal(t, 120.0, rec.AspectRatio())
}

func TestRecordType(t *testing.T) {
	for _, tc := range []struct {
		name string
		dx   float64
		dur  time.Duration
		want Type
	}{
		{"quick small is click", 2, 100 * time.Millisecond, TypeClick},
		{"held small is long-press", 2, 600 * time.Millisecond, TypeLongPress},
		{"displaced is drag", 50, 100 * time.Millisecond, TypeDrag},
		{"boundary 5px is drag", 5, 100 * time.Millisecond, TypeDrag},
	} {
		rec := Record{
			MouseDown: Point{X: 100, Y: 100},
			MouseUp:   Point{X: 100 + tc.dx, Y: 100},
			Duration:  tc.dur,
		}
		assert.Equal(t, tc.want, rec.Type(), tc.name)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 1920, MaxY: 1080}

	assert.True(t, r.Contains(Point{X: 960, Y: 540}))
	assert.True(t, r.Contains(Point{X: 0, Y: 0}))
	assert.True(t, r.Contains(Point{X: 1920, Y: 1080}))
	assert.False(t, r.Contains(Point{X: -1, Y: 540}))
	assert.False(t, r.Contains(Point{X: 960, Y: 1081}))
}

func TestRecorderLifecycle(t *testing.T) {
	r := NewRecorder()
	start := time.Now()

	r.Begin(Event{Kind: KindDown, At: Point{X: 100, Y: 100}, Time: start})
	assert.True(t, r.Active())

	r.Observe(Event{Kind: KindDrag, At: Point{X: 250, Y: 102}, Time: start.Add(200 * time.Millisecond)})
	rec, ok := r.End(Event{Kind: KindUp, At: Point{X: 400, Y: 105}, Time: start.Add(400 * time.Millisecond)})

	require.True(t, ok)
	assert.False(t, r.Active())
	assert.Equal(t, Point{X: 100, Y: 100}, rec.MouseDown)
	assert.Equal(t, Point{X: 400, Y: 105}, rec.MouseUp)
	assert.Equal(t, 400*time.Millisecond, rec.Duration)
	assert.Len(t, rec.Recent, 3)

	history := r.History()
	require.Len(t, history, 1)
	assert.Equal(t, TypeDrag, history[0].Type)
}

func TestRecorderSpuriousUp(t *testing.T) {
	r := NewRecorder()
	_, ok := r.End(Event{Kind: KindUp, At: Point{X: 100, Y: 100}, Time: time.Now()})
	assert.False(t, ok)
	assert.Empty(t, r.History())
}

func TestRecorderObserveWithoutBegin(t *testing.T) {
	r := NewRecorder()
	r.Observe(Event{Kind: KindDrag, At: Point{X: 50, Y: 50}, Time: time.Now()})
	assert.False(t, r.Active())
}

func TestRecorderBeginDiscardsHalfFinished(t *testing.T) {
	r := NewRecorder()
	start := time.Now()

	r.Begin(Event{Kind: KindDown, At: Point{X: 10, Y: 10}, Time: start})
	// Second down without an up: the first interaction is abandoned.
	r.Begin(Event{Kind: KindDown, At: Point{X: 500, Y: 500}, Time: start.Add(time.Second)})

	rec, ok := r.End(Event{Kind: KindUp, At: Point{X: 600, Y: 505}, Time: start.Add(1200 * time.Millisecond)})
	require.True(t, ok)
	assert.Equal(t, Point{X: 500, Y: 500}, rec.MouseDown)
	assert.Len(t, r.History(), 1)
}

func TestRecorderBoundedEvents(t *testing.T) {
	r := NewRecorder()
	start := time.Now()

	r.Begin(Event{Kind: KindDown, At: Point{X: 0, Y: 0}, Time: start})
	for i := 0; i < 50; i++ {
		r.Observe(Event{Kind: KindDrag, At: Point{X: float64(i), Y: 0}, Time: start})
	}
	rec, ok := r.End(Event{Kind: KindUp, At: Point{X: 300, Y: 2}, Time: start.Add(time.Second)})

	require.True(t, ok)
	assert.LessOrEqual(t, len(rec.Recent), 16)
	// Endpoints survive trimming of intermediate drag events.
	assert.Equal(t, Point{X: 0, Y: 0}, rec.MouseDown)
	assert.Equal(t, Point{X: 300, Y: 2}, rec.MouseUp)
}

func TestRecorderBoundedHistory(t *testing.T) {
	r := NewRecorder()
	start := time.Now()

	for i := 0; i < 20; i++ {
		at := start.Add(time.Duration(i) * time.Second)
		r.Begin(Event{Kind: KindDown, At: Point{X: 0, Y: 0}, Time: at})
		r.End(Event{Kind: KindUp, At: Point{X: 100, Y: 2}, Time: at.Add(300 * time.Millisecond)})
	}

	assert.Len(t, r.History(), 8)
}

func TestRecorderReset(t *testing.T) {
	r := NewRecorder()
	start := time.Now()

	r.Begin(Event{Kind: KindDown, At: Point{X: 0, Y: 0}, Time: start})
	r.End(Event{Kind: KindUp, At: Point{X: 100, Y: 2}, Time: start.Add(300 * time.Millisecond)})
	r.Begin(Event{Kind: KindDown, At: Point{X: 0, Y: 0}, Time: start.Add(time.Second)})

	r.Reset()
	assert.False(t, r.Active())
	assert.Empty(t, r.History())
}

func TestNegativeDurationClamped(t *testing.T) {
	r := NewRecorder()
	now := time.Now()

	r.Begin(Event{Kind: KindDown, At: Point{X: 0, Y: 0}, Time: now})
	rec, ok := r.End(Event{Kind: KindUp, At: Point{X: 50, Y: 0}, Time: now.Add(-time.Second)})

	require.True(t, ok)
	assert.Equal(t, time.Duration(0), rec.Duration)
}
