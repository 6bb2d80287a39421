package kicado

import (
	"strings"
	"time"
)

// Wire protocol prefixes emitted by the instrumentation shim on the
// application's stdout. Anything else is opaque and only matched literally.
const (
	windowTitlePrefix = "GTK:Window Title:"
	pangoPrefix       = "PANGO:"
	swapPrefix        = "GLX:Swap"
)

// exitMarker is the synthetic value returned by waits that tolerate the
// application exiting. It never appears on the wire.
const exitMarker = ">>exit<<"

// An Event is one line received from the instrumentation shim, stamped with
// the time elapsed since the reader started. Immutable once created.
type Event struct {
	Elapsed time.Duration
	Line    string
}

// pangoPayload returns the text payload of a PANGO line.
func pangoPayload(line string) (string, bool) {
	if !strings.HasPrefix(line, pangoPrefix) {
		return "", false
	}
	return line[len(pangoPrefix):], true
}

// windowTitle returns the title carried by a GTK window-title line.
func windowTitle(line string) (string, bool) {
	if !strings.HasPrefix(line, windowTitlePrefix) {
		return "", false
	}
	return line[len(windowTitlePrefix):], true
}
