// Package profile maps host applications to extraction strategy orderings.
// Lookups are deterministic: exact match wins over substring match, ties
// break in first-registered order.
package profile

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Method identifies one extraction tier.
type Method string

const (
	MethodIntrospection Method = "introspection"
	MethodAppSpecific   Method = "app-specific"
	MethodMenuCopy      Method = "menu-copy"
	MethodKeyCopy       Method = "key-copy"
)

// ValidMethod reports whether s names a known extraction method.
func ValidMethod(s string) bool {
	switch Method(s) {
	case MethodIntrospection, MethodAppSpecific, MethodMenuCopy, MethodKeyCopy:
		return true
	}
	return false
}

// Gate is the minimum gesture evidence required before a high-risk method
// (shortcut simulation) may run for this application. Zero value means
// ungated.
type Gate struct {
	MinDistance float64
	MinDuration time.Duration
}

// Profile describes how to extract text from one application.
type Profile struct {
	MatchKey string
	Methods  []Method
	Gate     Gate
	Disabled map[Method]bool
}

// Allows reports whether m may be attempted under this profile.
func (p Profile) Allows(m Method) bool {
	return !p.Disabled[m]
}

// DefaultProfile is applied when no registered profile matches:
// introspection first, then the progressively riskier fallbacks, with the
// shortcut tier gated on gesture evidence.
func DefaultProfile() Profile {
	return Profile{
		MatchKey: "",
		Methods:  []Method{MethodIntrospection, MethodAppSpecific, MethodMenuCopy, MethodKeyCopy},
		Gate:     Gate{MinDistance: 10, MinDuration: 500 * time.Millisecond},
	}
}

// Registry is the read-mostly profile store. Registration order is
// significant for substring matching.
type Registry struct {
	order    []string
	profiles map[string]Profile
	logger   *zap.Logger
}

// NewRegistry seeds the registry with known-problematic categories: chat
// applications prefer the menu-driven copy (their views rarely expose
// selected-text attributes but their menus are reliable); terminals and code
// editors prefer the simulated shortcut (poor introspection, copy shortcut
// well-defined); browsers get the app-specific traversal.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{profiles: make(map[string]Profile), logger: logger}

	terminalGate := Gate{MinDistance: 10, MinDuration: 500 * time.Millisecond}
	for _, app := range []string{"terminal", "iterm", "alacritty", "kitty", "wezterm", "warp"} {
		r.Register(Profile{
			MatchKey: app,
			Methods:  []Method{MethodIntrospection, MethodKeyCopy, MethodMenuCopy},
			Gate:     terminalGate,
		})
	}
	for _, app := range []string{"code", "cursor", "sublime text", "vim", "emacs", "intellij", "xcode"} {
		r.Register(Profile{
			MatchKey: app,
			Methods:  []Method{MethodIntrospection, MethodKeyCopy, MethodMenuCopy},
			Gate:     Gate{MinDistance: 10, MinDuration: 300 * time.Millisecond},
		})
	}
	for _, app := range []string{"slack", "discord", "telegram", "wechat", "messages", "whatsapp"} {
		r.Register(Profile{
			MatchKey: app,
			Methods:  []Method{MethodIntrospection, MethodMenuCopy, MethodKeyCopy},
			Gate:     Gate{MinDistance: 20, MinDuration: 800 * time.Millisecond},
		})
	}
	for _, app := range []string{"chrome", "safari", "firefox", "edge", "brave", "arc"} {
		r.Register(Profile{
			MatchKey: app,
			Methods:  []Method{MethodIntrospection, MethodAppSpecific, MethodMenuCopy, MethodKeyCopy},
			Gate:     Gate{MinDistance: 10, MinDuration: 500 * time.Millisecond},
		})
	}

	return r
}

// Register adds or replaces a profile. The match key is normalized to
// lowercase; first registration fixes the key's position in match order.
func (r *Registry) Register(p Profile) {
	key := normalize(p.MatchKey)
	if key == "" {
		return
	}
	p.MatchKey = key
	if _, exists := r.profiles[key]; !exists {
		r.order = append(r.order, key)
	}
	r.profiles[key] = p
}

// Resolve finds the profile for an application name. Exact match wins, then
// bidirectional substring match in registration order. A miss yields the
// default profile.
func (r *Registry) Resolve(app string) Profile {
	key := normalize(app)
	if key == "" {
		return DefaultProfile()
	}

	if p, ok := r.profiles[key]; ok {
		return p
	}

	for _, registered := range r.order {
		if strings.Contains(key, registered) || strings.Contains(registered, key) {
			return r.profiles[registered]
		}
	}

	return DefaultProfile()
}

// Keys returns the registered match keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
