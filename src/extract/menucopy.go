package extract

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/accessibility"
	"selection-capture/src/clipboard"
	"selection-capture/src/profile"
)

// copyLabels matches a "copy" command label across locales, lowercase.
var copyLabels = []string{
	"copy", "copiar", "copier", "kopieren", "copia", "kopiëren",
	"копировать", "コピー", "복사", "复制", "拷贝",
}

// copyExclusions filters out copy variants that would not copy the
// selection itself.
var copyExclusions = []string{
	"link", "url", "path", "address", "location", "style", "format", "id",
}

// MenuCopy locates a copy command in the host application's command surface,
// invokes it, and polls the clipboard for the result. The host mutates the
// clipboard on our behalf, so the original content is restored on every exit
// path.
type MenuCopy struct {
	Surface      accessibility.CommandSurface
	Board        clipboard.Board
	Logger       *zap.Logger
	PollInterval time.Duration
	PollAttempts int
}

func (MenuCopy) Method() profile.Method { return profile.MethodMenuCopy }

func (s MenuCopy) Attempt(_ context.Context, ec *Context) (string, error) {
	if s.Surface == nil || s.Board == nil {
		return "", accessibility.ErrUnavailable
	}

	cmds, err := s.Surface.Commands(ec.App)
	if err != nil {
		return "", err
	}
	cmd, ok := findCopyCommand(cmds)
	if !ok {
		return "", ErrNoCopyCommand
	}

	original := s.Board.Read()
	baseline := s.Board.ChangeCount()
	defer restoreClipboard(s.Board, original, s.Logger)

	if err := s.Surface.Invoke(cmd); err != nil {
		return "", err
	}

	text := pollClipboardChange(s.Board, baseline, original, s.PollInterval, s.PollAttempts)
	if strings.TrimSpace(text) == "" {
		return "", ErrClipboardUnchanged
	}
	return text, nil
}

// findCopyCommand returns the first command whose label is a plain copy
// action in any supported locale.
func findCopyCommand(cmds []accessibility.Command) (accessibility.Command, bool) {
	for _, cmd := range cmds {
		label := strings.ToLower(strings.TrimSpace(cmd.Label))
		if label == "" {
			continue
		}
		if !matchesCopyLabel(label) || matchesExclusion(label) {
			continue
		}
		return cmd, true
	}
	return accessibility.Command{}, false
}

func matchesCopyLabel(label string) bool {
	for _, want := range copyLabels {
		if label == want || strings.HasPrefix(label, want+" ") || strings.HasPrefix(label, want+"\t") {
			return true
		}
	}
	return false
}

func matchesExclusion(label string) bool {
	for _, excl := range copyExclusions {
		if strings.Contains(label, excl) {
			return true
		}
	}
	return false
}
