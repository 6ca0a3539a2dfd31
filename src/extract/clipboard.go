package extract

import (
	"time"

	"go.uber.org/zap"

	"selection-capture/src/clipboard"
)

const (
	defaultPollInterval = 50 * time.Millisecond
	defaultPollAttempts = 10
)

// restoreClipboard puts the pre-attempt content back. A restore failure is
// the one condition escalated loudly: it corrupts shared system state that
// does not belong to us.
func restoreClipboard(board clipboard.Board, original string, logger *zap.Logger) {
	if err := board.Write(original); err != nil {
		if logger == nil {
			logger = zap.L()
		}
		logger.Error("CLIPBOARD RESTORE FAILED, original content lost",
			zap.Int("original_length", len(original)),
			zap.Error(err))
	}
}

// pollClipboardChange busy-waits in short bounded intervals for the
// clipboard change counter to move past baseline and yield a usable value.
// Returns empty when the host never answers.
func pollClipboardChange(board clipboard.Board, baseline uint64, reject string, interval time.Duration, attempts int) string {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if attempts <= 0 {
		attempts = defaultPollAttempts
	}

	for i := 0; i < attempts; i++ {
		time.Sleep(interval)
		if board.ChangeCount() == baseline {
			continue
		}
		text := board.Read()
		if text != "" && text != reject {
			return text
		}
	}
	return ""
}
