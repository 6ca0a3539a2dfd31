//go:build windows

package keysynth

import (
	"syscall"
	"time"
)

var (
	user32         = syscall.NewLazyDLL("user32.dll")
	procKeybdEvent = user32.NewProc("keybd_event")
)

const (
	vkControl       = 0x11
	vkC             = 0x43
	keyEventKeyUp   = 0x0002
	interKeyDelayMs = 10
)

type platformSynthesizer struct{}

// CopyShortcut presses and releases Ctrl+C with a small inter-key delay so
// the host application registers the chord.
func (platformSynthesizer) CopyShortcut() error {
	if err := procKeybdEvent.Find(); err != nil {
		return err
	}

	keybd(vkControl, 0)
	keybd(vkC, 0)
	time.Sleep(interKeyDelayMs * time.Millisecond)
	keybd(vkC, keyEventKeyUp)
	keybd(vkControl, keyEventKeyUp)
	return nil
}

func keybd(vk, flags uintptr) {
	_, _, _ = procKeybdEvent.Call(vk, 0, flags, 0)
}
