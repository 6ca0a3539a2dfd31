// Package gesture holds the raw pointer telemetry model: immutable pointer
// events, the per-interaction record handed to the classifier, and the
// bounded recorder that accumulates events between pointer-down and
// pointer-up.
package gesture

import (
	"math"
	"time"
)

// Kind identifies a pointer event within one interaction.
type Kind int

const (
	KindDown Kind = iota
	KindDrag
	KindUp
)

func (k Kind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindDrag:
		return "drag"
	case KindUp:
		return "up"
	default:
		return "unknown"
	}
}

// Point is a screen coordinate in pixels.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance to q.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned screen rectangle (display or work-area bounds).
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Event is one pointer event as delivered by the input source. Immutable.
type Event struct {
	Kind Kind
	At   Point
	Time time.Time
}

// Type is the coarse gesture shape derived from a completed interaction.
type Type int

const (
	TypeClick Type = iota
	TypeDrag
	TypeLongPress
)

func (t Type) String() string {
	switch t {
	case TypeClick:
		return "click"
	case TypeDrag:
		return "drag"
	case TypeLongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

// Record describes one completed pointer-down-to-pointer-up interaction.
type Record struct {
	MouseDown Point
	MouseUp   Point
	Duration  time.Duration
	// Recent holds the bounded event history for this interaction,
	// oldest first.
	Recent []Event
}

// Distance is the Euclidean distance between pointer-down and pointer-up.
// Never negative.
func (r Record) Distance() float64 {
	return r.MouseDown.DistanceTo(r.MouseUp)
}

// Width returns the horizontal extent of the gesture.
func (r Record) Width() float64 {
	return math.Abs(r.MouseUp.X - r.MouseDown.X)
}

// Height returns the vertical extent of the gesture.
func (r Record) Height() float64 {
	return math.Abs(r.MouseUp.Y - r.MouseDown.Y)
}

// AspectRatio returns longer axis / shorter axis, with the shorter axis
// floored at 1px so a perfectly straight drag does not divide by zero.
func (r Record) AspectRatio() float64 {
	w, h := r.Width(), r.Height()
	longer, shorter := w, h
	if h > w {
		longer, shorter = h, w
	}
	if shorter < 1 {
		shorter = 1
	}
	return longer / shorter
}

// Type derives the coarse gesture shape. Small displacement is a click when
// quick and a long-press otherwise; everything else is a drag.
func (r Record) Type() Type {
	if r.Distance() < 5 {
		if r.Duration < 250*time.Millisecond {
			return TypeClick
		}
		return TypeLongPress
	}
	return TypeDrag
}

// Sample summarizes one completed interaction for event-sequence analysis.
type Sample struct {
	Type     Type
	Distance float64
	Duration time.Duration
	At       time.Time
}

const (
	defaultMaxEvents  = 16
	defaultMaxSamples = 8
)

// Recorder accumulates pointer telemetry for the current interaction and
// keeps a bounded history of completed interactions. Not safe for concurrent
// use; the event loop owns it.
type Recorder struct {
	maxEvents  int
	maxSamples int

	active bool
	down   Event
	events []Event

	history []Sample
}

// NewRecorder creates a recorder with default bounds.
func NewRecorder() *Recorder {
	return &Recorder{
		maxEvents:  defaultMaxEvents,
		maxSamples: defaultMaxSamples,
	}
}

// Begin starts a new interaction, discarding any half-finished one.
func (r *Recorder) Begin(ev Event) {
	r.active = true
	r.down = ev
	r.events = r.events[:0]
	r.push(ev)
}

// Observe appends a drag event to the current interaction. Ignored when no
// interaction is active.
func (r *Recorder) Observe(ev Event) {
	if !r.active {
		return
	}
	r.push(ev)
}

// End completes the current interaction and returns its record. The second
// return is false when no interaction was in progress (spurious pointer-up).
func (r *Recorder) End(ev Event) (Record, bool) {
	if !r.active {
		return Record{}, false
	}
	r.push(ev)
	r.active = false

	dur := ev.Time.Sub(r.down.Time)
	if dur < 0 {
		dur = 0
	}
	rec := Record{
		MouseDown: r.down.At,
		MouseUp:   ev.At,
		Duration:  dur,
		Recent:    append([]Event(nil), r.events...),
	}

	r.history = append(r.history, Sample{
		Type:     rec.Type(),
		Distance: rec.Distance(),
		Duration: rec.Duration,
		At:       ev.Time,
	})
	if len(r.history) > r.maxSamples {
		r.history = r.history[len(r.history)-r.maxSamples:]
	}

	return rec, true
}

// History returns recent completed-interaction samples, oldest first.
func (r *Recorder) History() []Sample {
	return append([]Sample(nil), r.history...)
}

// Active reports whether an interaction is in progress.
func (r *Recorder) Active() bool { return r.active }

// Reset drops the current interaction and all history. Called on
// application switch.
func (r *Recorder) Reset() {
	r.active = false
	r.events = r.events[:0]
	r.history = r.history[:0]
}

func (r *Recorder) push(ev Event) {
	r.events = append(r.events, ev)
	if len(r.events) > r.maxEvents {
		r.events = r.events[len(r.events)-r.maxEvents:]
	}
}
