package extract

import (
	"context"
	"strings"

	"selection-capture/src/accessibility"
	"selection-capture/src/profile"
)

// Handler is one tailored extraction routine for an application with known
// introspection gaps.
type Handler func(ctx context.Context, ec *Context) (string, error)

// AppSpecific dispatches to tailored handlers by case-insensitive substring
// match on the application name. Applications without a handler fail through
// to the next tier.
type AppSpecific struct {
	handlers map[string]Handler
	order    []string
}

// NewAppSpecific wires the built-in handlers: browsers traverse the focused
// web area for a selection the generic introspection path misses, and
// terminal emulators jump straight to the gated shortcut simulation since
// their views expose no selection attributes at all.
func NewAppSpecific(provider accessibility.Provider, key KeyCopy) *AppSpecific {
	s := &AppSpecific{handlers: make(map[string]Handler)}

	browser := browserHandler(provider)
	for _, app := range []string{"chrome", "safari", "firefox", "edge", "brave", "arc"} {
		s.register(app, browser)
	}

	terminal := func(ctx context.Context, ec *Context) (string, error) {
		return key.Attempt(ctx, ec)
	}
	for _, app := range []string{"terminal", "iterm", "alacritty", "kitty", "wezterm"} {
		s.register(app, terminal)
	}

	return s
}

func (AppSpecific) Method() profile.Method { return profile.MethodAppSpecific }

func (s *AppSpecific) Attempt(ctx context.Context, ec *Context) (string, error) {
	app := strings.ToLower(ec.App)
	for _, key := range s.order {
		if strings.Contains(app, key) {
			return s.handlers[key](ctx, ec)
		}
	}
	return "", ErrNoHandler
}

// Register adds a handler for applications whose lowercase name contains
// key. First registration wins on overlapping keys.
func (s *AppSpecific) Register(key string, h Handler) {
	s.register(strings.ToLower(strings.TrimSpace(key)), h)
}

func (s *AppSpecific) register(key string, h Handler) {
	if key == "" || h == nil {
		return
	}
	if _, exists := s.handlers[key]; !exists {
		s.order = append(s.order, key)
	}
	s.handlers[key] = h
}

// browserHandler walks from the focused element into the web content area.
// Browsers often report selection only on the web area element, not on the
// focused element itself.
func browserHandler(provider accessibility.Provider) Handler {
	return func(_ context.Context, ec *Context) (string, error) {
		if provider == nil {
			return "", accessibility.ErrUnavailable
		}

		h := ec.Handle
		if h == nil {
			var ok bool
			h, ok = provider.Focused()
			if !ok {
				return "", accessibility.ErrNoFocus
			}
		}

		for _, attr := range []string{"web-selected-text", accessibility.AttrSelectedText} {
			if text, ok := provider.Attribute(h, attr); ok {
				if strings.TrimSpace(text) != "" {
					return text, nil
				}
			}
		}
		return "", ErrAttributeMissing
	}
}
