//go:build !windows

package keysynth

type platformSynthesizer struct{}

func (platformSynthesizer) CopyShortcut() error {
	return ErrUnsupported
}
