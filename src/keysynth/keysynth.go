// Package keysynth synthesizes the platform copy shortcut for the simulated
// copy extraction tier.
package keysynth

import "errors"

// ErrUnsupported marks platforms without a synthesis backend. Treated as a
// routine extraction-method failure, never fatal.
var ErrUnsupported = errors.New("key synthesis not supported on this platform")

// Synthesizer emits the platform copy shortcut into the focused
// application.
type Synthesizer interface {
	CopyShortcut() error
}

// New returns the platform synthesizer.
func New() Synthesizer {
	return platformSynthesizer{}
}
