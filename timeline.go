package kicado

import (
	"fmt"
	"io"
	"sync"
)

// markerPrefix tags synthesized timeline entries so they cannot be confused
// with wire-protocol lines.
const markerPrefix = "KiCado:"

// A Timeline is the append-only diagnostic record of one session: every
// consumed event plus the matcher's bookkeeping markers, in order. It is
// flushed exactly once, at session teardown, and never truncated or
// reordered.
type Timeline struct {
	mu      sync.Mutex
	entries []string
	lastMs  float64
	closed  bool
}

// AppendEvent records a consumed event with its absolute timestamp and the
// delay since the previous event, both in milliseconds.
func (tl *Timeline) AppendEvent(ev Event) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.closed {
		return
	}
	ms := float64(ev.Elapsed.Microseconds()) / 1000.0
	diff := 0.0
	if tl.lastMs != 0 {
		diff = ms - tl.lastMs
	}
	tl.lastMs = ms
	tl.entries = append(tl.entries, fmt.Sprintf("%s (@%.3f D %.3f)", ev.Line, ms, diff))
}

// AppendMarker records a synthesized control marker ("waiting for …",
// "match", …) for postmortem diagnosis.
func (tl *Timeline) AppendMarker(note string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.closed {
		return
	}
	tl.entries = append(tl.entries, markerPrefix+note)
}

// Entries returns a copy of the recorded entries.
func (tl *Timeline) Entries() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	cp := make([]string, len(tl.entries))
	copy(cp, tl.entries)
	return cp
}

// Len returns the number of recorded entries.
func (tl *Timeline) Len() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return len(tl.entries)
}

// Flush writes every entry to w, one per line, and closes the timeline.
// Further appends are ignored. Flushing twice is an error.
func (tl *Timeline) Flush(w io.Writer) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.closed {
		return fmt.Errorf("kicado: timeline already flushed")
	}
	tl.closed = true
	for _, entry := range tl.entries {
		if _, err := fmt.Fprintln(w, entry); err != nil {
			return fmt.Errorf("kicado: timeline flush: %w", err)
		}
	}
	return nil
}
