package extract

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/accessibility"
	"selection-capture/src/clipboard"
	"selection-capture/src/keysynth"
	"selection-capture/src/profile"
)

// KeyCopy snapshots the clipboard, clears it, synthesizes the platform copy
// shortcut, and polls for a changed non-empty value. It is the highest-risk
// tier: it injects input into the host, so it is gated on gesture evidence
// and the original clipboard content is restored unconditionally, even when
// the copied-value check fails.
type KeyCopy struct {
	Board        clipboard.Board
	Synth        keysynth.Synthesizer
	Logger       *zap.Logger
	PollInterval time.Duration
	PollAttempts int
}

func (KeyCopy) Method() profile.Method { return profile.MethodKeyCopy }

func (s KeyCopy) Attempt(_ context.Context, ec *Context) (string, error) {
	if s.Board == nil || s.Synth == nil {
		return "", accessibility.ErrUnavailable
	}
	if !ec.GestureEvidence() {
		return "", ErrGestureEvidence
	}

	original := s.Board.Read()
	defer restoreClipboard(s.Board, original, s.Logger)

	if err := s.Board.Clear(); err != nil {
		return "", err
	}
	baseline := s.Board.ChangeCount()

	if err := s.Synth.CopyShortcut(); err != nil {
		return "", err
	}

	text := pollClipboardChange(s.Board, baseline, original, s.PollInterval, s.PollAttempts)
	if strings.TrimSpace(text) == "" {
		return "", ErrClipboardUnchanged
	}
	return text, nil
}
