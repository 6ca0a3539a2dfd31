package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selection-capture/src/gesture"
)

func down(x, y float64, at time.Time) gesture.Event {
	return gesture.Event{Kind: gesture.KindDown, At: gesture.Point{X: x, Y: y}, Time: at}
}

func up(x, y float64, at time.Time) gesture.Event {
	return gesture.Event{Kind: gesture.KindUp, At: gesture.Point{X: x, Y: y}, Time: at}
}

func TestInteractionRoundTrip(t *testing.T) {
	s := New(nil)
	defer s.Close()
	start := time.Now()

	s.PointerDown(down(100, 100, start))
	s.PointerDrag(gesture.Event{Kind: gesture.KindDrag, At: gesture.Point{X: 250, Y: 102}, Time: start.Add(200 * time.Millisecond)})
	rec, ok := s.PointerUp(up(400, 105, start.Add(400*time.Millisecond)))

	require.True(t, ok)
	assert.Equal(t, gesture.Point{X: 100, Y: 100}, rec.MouseDown)
	assert.Equal(t, gesture.Point{X: 400, Y: 105}, rec.MouseUp)
	assert.Len(t, s.History(), 1)
}

func TestScheduleFires(t *testing.T) {
	s := New(nil)
	defer s.Close()

	fired := make(chan uint64, 1)
	id := s.Schedule(10*time.Millisecond, func(got uint64) { fired <- got })

	select {
	case got := <-fired:
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("scheduled extraction never fired")
	}
}

func TestPointerDownCancelsPending(t *testing.T) {
	s := New(nil)
	defer s.Close()

	var fired atomic.Bool
	s.Schedule(30*time.Millisecond, func(uint64) { fired.Store(true) })

	// A new interaction before the delay elapses abandons the extraction.
	s.PointerDown(down(10, 10, time.Now()))

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestRescheduleSupersedes(t *testing.T) {
	s := New(nil)
	defer s.Close()

	fired := make(chan uint64, 2)
	s.Schedule(30*time.Millisecond, func(id uint64) { fired <- id })
	second := s.Schedule(30*time.Millisecond, func(id uint64) { fired <- id })

	select {
	case got := <-fired:
		assert.Equal(t, second, got)
	case <-time.After(time.Second):
		t.Fatal("scheduled extraction never fired")
	}

	select {
	case got := <-fired:
		t.Fatalf("superseded extraction %d fired anyway", got)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestAppSwitchResetsHistoryAndPending(t *testing.T) {
	s := New(nil)
	defer s.Close()
	start := time.Now()

	s.PointerDown(down(100, 100, start))
	s.PointerUp(up(300, 105, start.Add(300*time.Millisecond)))
	require.Len(t, s.History(), 1)

	var fired atomic.Bool
	s.Schedule(30*time.Millisecond, func(uint64) { fired.Store(true) })

	s.SetActiveApp("chrome")

	assert.Empty(t, s.History())
	assert.Equal(t, "chrome", s.ActiveApp())
	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestSetSameAppKeepsState(t *testing.T) {
	s := New(nil)
	defer s.Close()
	start := time.Now()

	s.SetActiveApp("slack")
	s.PointerDown(down(100, 100, start))
	s.PointerUp(up(300, 105, start.Add(300*time.Millisecond)))

	s.SetActiveApp("slack")
	assert.Len(t, s.History(), 1)
}

func TestCloseCancelsAndRejectsNewWork(t *testing.T) {
	s := New(nil)

	var fired atomic.Bool
	s.Schedule(30*time.Millisecond, func(uint64) { fired.Store(true) })
	s.Close()

	assert.Equal(t, uint64(0), s.Schedule(time.Millisecond, func(uint64) { fired.Store(true) }))
	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestSpuriousPointerUp(t *testing.T) {
	s := New(nil)
	defer s.Close()

	_, ok := s.PointerUp(up(100, 100, time.Now()))
	assert.False(t, ok)
}
