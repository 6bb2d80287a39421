package kicado

import "time"

// A WindowController is the window-control subsystem: it raises windows and
// injects keystrokes. The engine only consumes this interface; injection
// mechanics live outside it.
type WindowController interface {
	// RaiseWindow brings the window with the given title to the front,
	// waiting up to the timeout for it to exist.
	RaiseWindow(title string, timeout time.Duration) error
	// PressKeys injects the named keys in order into the focused window.
	PressKeys(keys ...string) error
}
