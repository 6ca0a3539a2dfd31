// Package validator composes window-operation state, event-sequence
// analysis and the drag classifier into a single accept/reject verdict for
// each completed gesture. Rejections are normal negative outcomes, not
// errors; every verdict carries a reason specific enough to reconstruct
// which check fired.
package validator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/classifier"
	"selection-capture/src/config"
	"selection-capture/src/gesture"
	"selection-capture/src/winmon"
)

// Verdict is the validation outcome for one interaction.
type Verdict struct {
	Accepted bool
	Reason   string
}

const (
	// windowOpWindow is how recently a window operation must have happened
	// to suppress a gesture.
	windowOpWindow = 500 * time.Millisecond
	// sequenceWindow bounds the event-sequence analysis lookback.
	sequenceWindow = 2 * time.Second

	longPressMin = 250 * time.Millisecond
	longPressMax = 5 * time.Second
)

// Validator short-circuits on the first rejecting layer.
type Validator struct {
	classifier *classifier.Classifier
	monitor    *winmon.Monitor
	mode       config.Mode
	logger     *zap.Logger
}

func New(c *classifier.Classifier, m *winmon.Monitor, mode config.Mode, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{classifier: c, monitor: m, mode: mode, logger: logger}
}

// Validate runs the layered checks against a completed gesture and the
// recent interaction history.
func (v *Validator) Validate(rec gesture.Record, history []gesture.Sample) Verdict {
	verdict := v.validate(rec, history)
	v.logger.Debug("gesture validated",
		zap.Bool("accepted", verdict.Accepted),
		zap.String("reason", verdict.Reason),
		zap.Float64("distance", rec.Distance()),
		zap.Duration("duration", rec.Duration))
	return verdict
}

func (v *Validator) validate(rec gesture.Record, history []gesture.Sample) Verdict {
	// Pure mode trusts the classifier alone.
	if v.mode != config.ModePure {
		if v.monitor != nil && v.monitor.OperationWithin(windowOpWindow) {
			kind, at, _ := v.monitor.LastOperation()
			return Verdict{false, fmt.Sprintf("window operation in progress (%s %.0fms ago)", kind, time.Since(at).Seconds()*1000)}
		}

		if r, rejected := v.checkSequence(history); rejected {
			return r
		}

		// Edge-origin drags are window resizes regardless of their shape,
		// so this fires before the classifier.
		if v.classifier.NearEdge(rec.MouseDown, v.classifier.ScaledEdgeMargin()) &&
			rec.Distance() > v.classifier.ScaledEdgeDistance() {
			return Verdict{false, fmt.Sprintf("drag origin near screen edge (within %.0fpx), likely window resize", v.classifier.EdgeMargin())}
		}
	}

	res := v.classifier.Classify(rec)
	if res.Category != classifier.TextSelection {
		return Verdict{false, fmt.Sprintf("classified as %s (confidence %.2f): %s", res.Category, res.Confidence, res.Reason)}
	}
	if v.mode == config.ModeConservative && res.Confidence < 0.60 {
		return Verdict{false, fmt.Sprintf("conservative mode: confidence %.2f below floor 0.60", res.Confidence)}
	}

	if r, rejected := v.checkGestureType(rec); rejected {
		return r
	}

	return Verdict{true, fmt.Sprintf("text selection (confidence %.2f): %s", res.Confidence, res.Reason)}
}

// checkSequence rejects bursts that look like window manipulation or button
// mashing: 2-3 recent drags inside the lookback window, or three recent
// sub-10px clicks.
func (v *Validator) checkSequence(history []gesture.Sample) (Verdict, bool) {
	recent := samplesWithin(history, sequenceWindow)
	if len(recent) < 2 {
		return Verdict{}, false
	}

	tail := recent
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}

	allDrags := true
	for _, s := range tail {
		if s.Type != gesture.TypeDrag {
			allDrags = false
			break
		}
	}
	if allDrags {
		return Verdict{false, fmt.Sprintf("rapid drag sequence (%d drags within %s), likely window operation", len(tail), sequenceWindow)}, true
	}

	if len(tail) >= 3 {
		allClicks := true
		for _, s := range tail {
			if s.Type != gesture.TypeClick || s.Distance >= 10 {
				allClicks = false
				break
			}
		}
		if allClicks {
			return Verdict{false, "multiple clicks in quick succession, likely UI interaction"}, true
		}
	}

	return Verdict{}, false
}

// checkGestureType re-validates the coarse gesture shape against
// type-specific thresholds. Clicks never select text.
func (v *Validator) checkGestureType(rec gesture.Record) (Verdict, bool) {
	switch rec.Type() {
	case gesture.TypeClick:
		return Verdict{false, "simple click, not a selection gesture"}, true
	case gesture.TypeLongPress:
		if rec.Duration < longPressMin || rec.Duration > longPressMax {
			return Verdict{false, fmt.Sprintf("long-press duration %.2fs outside %.2fs-%.1fs", rec.Duration.Seconds(), longPressMin.Seconds(), longPressMax.Seconds())}, true
		}
	case gesture.TypeDrag:
		if rec.Distance() < 3 {
			return Verdict{false, fmt.Sprintf("drag distance %.1fpx too small", rec.Distance())}, true
		}
	}
	return Verdict{}, false
}

func samplesWithin(history []gesture.Sample, window time.Duration) []gesture.Sample {
	cutoff := time.Now().Add(-window)
	for i, s := range history {
		if s.At.After(cutoff) {
			return history[i:]
		}
	}
	return nil
}
