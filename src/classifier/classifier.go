// Package classifier turns a completed gesture record into a categorical
// judgment of user intent. Classification is a pure rule cascade: the first
// matching rule wins and every result carries a confidence and a reason
// specific enough to reconstruct which rule fired.
package classifier

import (
	"fmt"

	"selection-capture/src/gesture"
)

// Category is the classified intent of a drag gesture.
type Category string

const (
	TextSelection   Category = "text-selection"
	WindowResize    Category = "window-resize"
	WindowMove      Category = "window-move"
	WindowOperation Category = "window-operation"
	FileMove        Category = "file-move"
	UIInteraction   Category = "ui-interaction"
	Unknown         Category = "unknown"
)

// Result is the classification outcome. Derived once, never mutated.
type Result struct {
	Category   Category
	Confidence float64
	Reason     string
}

// BoundsFunc supplies display bounds for the edge-margin rule. May return
// nil when geometry is unavailable; the edge rule then never fires.
type BoundsFunc func() []gesture.Rect

// Options carries the tunable thresholds, all in pixels or seconds before
// sensitivity scaling.
type Options struct {
	EdgeMargin           float64
	MaxSelectionDistance float64
	MinUIDistance        float64
	Sensitivity          float64
	Bounds               BoundsFunc
}

// Classifier applies the ordered rule cascade. Safe for concurrent use:
// classification reads only immutable configuration.
type Classifier struct {
	edgeMargin  float64
	maxSelDist  float64
	minUIDist   float64
	sensitivity float64
	bounds      BoundsFunc
}

// New builds a classifier, filling zero options with defaults (50px edge
// margin, 600px max selection distance, 20px min UI distance, sensitivity 1).
func New(opts Options) *Classifier {
	c := &Classifier{
		edgeMargin:  opts.EdgeMargin,
		maxSelDist:  opts.MaxSelectionDistance,
		minUIDist:   opts.MinUIDistance,
		sensitivity: opts.Sensitivity,
		bounds:      opts.Bounds,
	}
	if c.edgeMargin <= 0 {
		c.edgeMargin = 50
	}
	if c.maxSelDist <= 0 {
		c.maxSelDist = 600
	}
	if c.minUIDist <= 0 {
		c.minUIDist = 20
	}
	if c.sensitivity <= 0 {
		c.sensitivity = 1.0
	}
	return c
}

// shrink lowers a threshold as sensitivity rises. Used for floors that gate
// non-selection categories and for minimums on selection rules, so higher
// sensitivity is always more permissive toward text selection.
func (c *Classifier) shrink(v float64) float64 { return v / c.sensitivity }

// grow raises a threshold as sensitivity rises. Used for caps whose
// exceedance classifies away from text selection.
func (c *Classifier) grow(v float64) float64 { return v * c.sensitivity }

// Classify runs the rule cascade. Deterministic and side-effect free:
// classifying the same record twice yields the identical result.
func (c *Classifier) Classify(rec gesture.Record) Result {
	dist := rec.Distance()
	dur := rec.Duration.Seconds()
	aspect := rec.AspectRatio()
	w, h := rec.Width(), rec.Height()

	// Rule 1: simple click.
	if dist < c.shrink(3) {
		return Result{UIInteraction, 0.95, fmt.Sprintf("simple click (distance %.1fpx)", dist)}
	}

	// Rule 2: fast large movement is a window fling, not a selection.
	if dist > c.grow(800) && dur < c.shrink(0.5) {
		return Result{WindowOperation, 0.90, fmt.Sprintf("fast large movement (%.0fpx in %.2fs)", dist, dur)}
	}

	// Rule 3: drag starting at a screen edge with real displacement.
	if c.NearEdge(rec.MouseDown, c.shrink(c.edgeMargin)) && dist > c.grow(30) {
		conf := clamp01(0.70 + 0.20*min1(dist/500))
		return Result{WindowResize, conf, fmt.Sprintf("drag origin within %.0fpx edge margin, distance %.0fpx suggests window resize", c.edgeMargin, dist)}
	}

	// Rule 4: diagonal medium-range movement looks like a file drag.
	if aspect < 3.0 && w > c.grow(20) && h > c.grow(20) && dist > c.grow(100) && dist < c.shrink(800) {
		if dist > c.grow(400) {
			return Result{FileMove, 0.85, fmt.Sprintf("long diagonal movement (%.0fpx, aspect %.1f) suggests file drag", dist, aspect)}
		}
		diagonality := (3.0 - aspect) / 2.0
		conf := clamp01(0.60 + 0.20*min1((dist-100)/700) + 0.10*diagonality)
		return Result{FileMove, conf, fmt.Sprintf("diagonal movement (%.0fpx, aspect %.1f) suggests file drag", dist, aspect)}
	}

	// Rule 5: strongly elongated movement is a text selection.
	if aspect > 5.0 && dist > c.shrink(10) {
		conf := clamp01(0.70 + 0.25*min1((aspect-5.0)/12.5))
		return Result{TextSelection, conf, fmt.Sprintf("high aspect ratio %.1f over %.0fpx indicates text selection", aspect, dist)}
	}

	// Rule 6: moderately elongated movement.
	if aspect > 2.5 {
		conf := clamp01(0.60 + 0.30*min1((aspect-2.5)/2.5))
		return Result{TextSelection, conf, fmt.Sprintf("elongated movement (aspect %.1f) indicates text selection", aspect)}
	}

	// Rule 7: slow, short movement is a careful selection.
	if dur > c.shrink(0.8) && dist < c.grow(300) {
		return Result{TextSelection, 0.65, fmt.Sprintf("slow careful movement (%.2fs, %.0fpx) indicates deliberate selection", dur, dist)}
	}

	// Rule 8: quick medium-range flick is a UI drag (slider, scrollbar).
	if dur < c.shrink(0.2) && dist > c.grow(50) && dist < c.shrink(200) {
		return Result{UIInteraction, 0.75, fmt.Sprintf("quick medium movement (%.2fs, %.0fpx) suggests UI drag", dur, dist)}
	}

	// Rule 9: beyond the selection distance ceiling.
	if dist > c.grow(c.maxSelDist) {
		return Result{WindowOperation, 0.70, fmt.Sprintf("distance %.0fpx exceeds selection maximum %.0fpx", dist, c.maxSelDist)}
	}

	// Rule 10: below the UI-interaction floor.
	if dist < c.shrink(c.minUIDist) {
		return Result{UIInteraction, 0.80, fmt.Sprintf("distance %.1fpx below minimum %.0fpx", dist, c.minUIDist)}
	}

	// Rule 11: nothing matched; allow with caution.
	return Result{TextSelection, 0.50, "pattern unclear, allowing with caution"}
}

// NearEdge reports whether p lies within margin pixels of any display
// boundary. Used both by rule 3 and by the validator's pre-classification
// resize check.
func (c *Classifier) NearEdge(p gesture.Point, margin float64) bool {
	if c.bounds == nil {
		return false
	}
	for _, r := range c.bounds() {
		if !r.Contains(p) {
			continue
		}
		if p.X-r.MinX < margin || r.MaxX-p.X < margin ||
			p.Y-r.MinY < margin || r.MaxY-p.Y < margin {
			return true
		}
	}
	return false
}

// EdgeMargin returns the configured (unscaled) edge margin.
func (c *Classifier) EdgeMargin() float64 { return c.edgeMargin }

// Sensitivity returns the active sensitivity multiplier.
func (c *Classifier) Sensitivity() float64 { return c.sensitivity }

// ScaledEdgeMargin returns the sensitivity-scaled edge margin used by the
// cascade.
func (c *Classifier) ScaledEdgeMargin() float64 { return c.shrink(c.edgeMargin) }

// ScaledEdgeDistance returns the sensitivity-scaled minimum displacement for
// the edge-resize rule.
func (c *Classifier) ScaledEdgeDistance() float64 { return c.grow(30) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
