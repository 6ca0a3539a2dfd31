package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"selection-capture/src/accessibility"
	"selection-capture/src/profile"
)

// Introspection queries the focused element for its selected-text attribute
// and falls back to slicing the element's full value by the selection range.
// Non-destructive, so it is the first tier for every profile.
type Introspection struct {
	Provider accessibility.Provider
}

func (Introspection) Method() profile.Method { return profile.MethodIntrospection }

func (s Introspection) Attempt(_ context.Context, ec *Context) (string, error) {
	if s.Provider == nil {
		return "", accessibility.ErrUnavailable
	}

	h := ec.Handle
	if h == nil {
		var ok bool
		h, ok = s.Provider.Focused()
		if !ok {
			return "", accessibility.ErrNoFocus
		}
	}

	if text, ok := s.Provider.Attribute(h, accessibility.AttrSelectedText); ok {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return text, nil
		}
	}

	rng, ok := s.Provider.Attribute(h, accessibility.AttrSelectedRange)
	if !ok {
		return "", ErrAttributeMissing
	}
	value, ok := s.Provider.Attribute(h, accessibility.AttrValue)
	if !ok {
		return "", ErrAttributeMissing
	}

	text, err := sliceByRange(value, rng)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrAttributeMissing
	}
	return text, nil
}

// sliceByRange cuts value by a "start,length" character range, clamping to
// the value bounds so a stale range never panics.
func sliceByRange(value, rng string) (string, error) {
	parts := strings.SplitN(rng, ",", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed selection range %q", rng)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("malformed selection range %q: %w", rng, err)
	}
	length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("malformed selection range %q: %w", rng, err)
	}
	if start < 0 || length <= 0 {
		return "", fmt.Errorf("empty selection range %q", rng)
	}

	runes := []rune(value)
	if start >= len(runes) {
		return "", fmt.Errorf("selection range %q beyond value length %d", rng, len(runes))
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end]), nil
}
