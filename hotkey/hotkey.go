// Package hotkey delivers global Ctrl+Shift+Space press events regardless of
// which application has focus.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
