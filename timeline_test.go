package kicado

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTimelineEventFormat(t *testing.T) {
	tl := &Timeline{}
	tl.AppendEvent(Event{Elapsed: 1500 * time.Microsecond, Line: "PANGO:hello"})
	tl.AppendEvent(Event{Elapsed: 4 * time.Millisecond, Line: "GLX:Swap 1"})

	entries := tl.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0] != "PANGO:hello (@1.500 D 0.000)" {
		t.Fatalf("entry 0 = %q", entries[0])
	}
	if entries[1] != "GLX:Swap 1 (@4.000 D 2.500)" {
		t.Fatalf("entry 1 = %q", entries[1])
	}
}

func TestTimelineMarkers(t *testing.T) {
	tl := &Timeline{}
	tl.AppendMarker("match")
	entries := tl.Entries()
	if len(entries) != 1 || entries[0] != "KiCado:match" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestTimelineFlushOnce(t *testing.T) {
	tl := &Timeline{}
	tl.AppendMarker("a")
	tl.AppendEvent(Event{Elapsed: time.Millisecond, Line: "PANGO:x"})

	var buf bytes.Buffer
	if err := tl.Flush(&buf); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("flushed %d lines: %q", len(lines), buf.String())
	}

	if err := tl.Flush(&buf); err == nil {
		t.Fatalf("second Flush succeeded, want error")
	}

	// Appends after flush are dropped.
	tl.AppendMarker("late")
	if tl.Len() != 2 {
		t.Fatalf("entries appended after flush")
	}
}
