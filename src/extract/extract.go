// Package extract retrieves the selected text for a validated gesture by
// walking an ordered chain of strategies: direct introspection,
// application-specific handling, menu-driven copy, and simulated copy
// shortcut. Per-tier failures are routine and recovered locally; only the
// aggregate "no text" outcome propagates. Any strategy that mutates the
// clipboard restores the original content on every exit path.
package extract

import (
	"context"
	"errors"

	"selection-capture/src/accessibility"
	"selection-capture/src/gesture"
	"selection-capture/src/profile"
)

var (
	// ErrNoText is the aggregate outcome when every tier is exhausted.
	ErrNoText = errors.New("no text found")
	// ErrAttributeMissing marks an element without selection attributes.
	ErrAttributeMissing = errors.New("element exposes no selection attribute")
	// ErrClipboardUnchanged marks a copy attempt the host never answered.
	ErrClipboardUnchanged = errors.New("clipboard did not change")
	// ErrGestureEvidence gates high-risk methods on real gesture data.
	ErrGestureEvidence = errors.New("insufficient gesture evidence for shortcut simulation")
	// ErrNoCopyCommand marks a command surface without a usable copy entry.
	ErrNoCopyCommand = errors.New("no copy command found")
	// ErrNoHandler marks an application without a tailored handler.
	ErrNoHandler = errors.New("no application-specific handler")
)

// Context carries everything one extraction attempt may consult.
type Context struct {
	App     string
	Handle  accessibility.Handle
	Gesture *gesture.Record
	Gate    profile.Gate
}

// GestureEvidence reports whether the recorded gesture justifies a
// high-risk method under the profile gate. An ungated profile always
// passes; a gated one requires actual gesture data exceeding a minimum.
func (ec *Context) GestureEvidence() bool {
	if ec.Gate.MinDistance <= 0 && ec.Gate.MinDuration <= 0 {
		return true
	}
	if ec.Gesture == nil {
		return false
	}
	if ec.Gate.MinDistance > 0 && ec.Gesture.Distance() >= ec.Gate.MinDistance {
		return true
	}
	if ec.Gate.MinDuration > 0 && ec.Gesture.Duration >= ec.Gate.MinDuration {
		return true
	}
	return false
}

// Strategy is one extraction tier.
type Strategy interface {
	Method() profile.Method
	// Attempt returns the selected text. An error or empty string sends
	// the orchestrator to the next tier.
	Attempt(ctx context.Context, ec *Context) (string, error)
}
