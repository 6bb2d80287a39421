package kicado

import "fmt"

// Key is a keysym name understood by the window-control subsystem. The
// engine only names keys; how they are injected is the controller's concern.
type Key string

// Keys used by the dialog dismissal sequences.
const (
	Return Key = "Return"
	Escape Key = "Escape"
	Tab    Key = "Tab"
	Left   Key = "Left"
	Right  Key = "Right"
	Up     Key = "Up"
	Down   Key = "Down"
	Space  Key = "space"
)

// Ctrl returns the chord for Ctrl+<char>.
func Ctrl(c byte) Key {
	return Key(fmt.Sprintf("ctrl+%c", c))
}

// Alt returns the chord for Alt+<char>.
func Alt(c byte) Key {
	return Key(fmt.Sprintf("alt+%c", c))
}

func keyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
