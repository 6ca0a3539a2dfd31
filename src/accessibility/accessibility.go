// Package accessibility defines the opaque capabilities this system consumes
// from the platform accessibility and UI-automation subsystems. The real
// providers are external collaborators; everything here is interface plus an
// always-unavailable default so extraction degrades to the fallback tiers on
// platforms without a bridge.
package accessibility

import "errors"

// Handle is an opaque reference to a UI element owned by the platform
// bridge.
type Handle interface{}

// Well-known attribute names understood by providers.
const (
	AttrSelectedText  = "selected-text"
	AttrSelectedRange = "selected-range" // "start,length" in characters
	AttrValue         = "value"
)

var (
	ErrUnavailable = errors.New("accessibility bridge unavailable")
	ErrNoFocus     = errors.New("no focused element")
)

// Provider is the handle-based introspection capability.
type Provider interface {
	// Focused returns a handle for the focused UI element, false when the
	// platform reports none.
	Focused() (Handle, bool)
	// Attribute returns the named attribute of an element, false when the
	// element does not expose it.
	Attribute(h Handle, name string) (string, bool)
}

// Command is one invocable entry of a host application's command surface
// (menu item, palette entry).
type Command struct {
	ID    string
	Label string
}

// CommandSurface enumerates and executes a host application's commands.
type CommandSurface interface {
	Commands(app string) ([]Command, error)
	Invoke(cmd Command) error
}

// Unavailable satisfies both capabilities by reporting nothing. Used where
// no platform bridge is wired; every introspection attempt then fails as a
// routine method failure.
type Unavailable struct{}

func (Unavailable) Focused() (Handle, bool)                { return nil, false }
func (Unavailable) Attribute(Handle, string) (string, bool) { return "", false }
func (Unavailable) Commands(string) ([]Command, error)      { return nil, ErrUnavailable }
func (Unavailable) Invoke(Command) error                    { return ErrUnavailable }
