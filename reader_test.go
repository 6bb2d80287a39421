package kicado

import (
	"strings"
	"testing"
	"time"
)

func TestReaderDeliversLinesInOrderAndCloses(t *testing.T) {
	in := strings.NewReader("GTK:Window Show:main\nPANGO:hello\nGLX:Swap 1\n")
	events := startReader(in)

	want := []string{"GTK:Window Show:main", "PANGO:hello", "GLX:Swap 1"}
	var lastElapsed time.Duration
	for i, w := range want {
		ev, ok := <-events
		if !ok {
			t.Fatalf("stream closed after %d events, want %d", i, len(want))
		}
		if ev.Line != w {
			t.Fatalf("event %d = %q, want %q", i, ev.Line, w)
		}
		if ev.Elapsed < lastElapsed {
			t.Fatalf("timestamps went backwards: %v then %v", lastElapsed, ev.Elapsed)
		}
		lastElapsed = ev.Elapsed
	}

	if _, ok := <-events; ok {
		t.Fatalf("expected the channel to close at end of stream")
	}
}

func TestReaderReplacesInvalidUTF8(t *testing.T) {
	in := strings.NewReader("PANGO:bad\xff\xfetext\n")
	events := startReader(in)

	ev, ok := <-events
	if !ok {
		t.Fatalf("no event delivered")
	}
	if !strings.HasPrefix(ev.Line, "PANGO:bad") || !strings.HasSuffix(ev.Line, "text") {
		t.Fatalf("line mangled: %q", ev.Line)
	}
	if strings.ContainsRune(ev.Line, 0xff) {
		t.Fatalf("invalid bytes not replaced: %q", ev.Line)
	}
	if !strings.Contains(ev.Line, "�") {
		t.Fatalf("no replacement rune in %q", ev.Line)
	}
}

func TestReaderHandlesMissingTrailingNewline(t *testing.T) {
	events := startReader(strings.NewReader("PANGO:last line"))

	ev, ok := <-events
	if !ok || ev.Line != "PANGO:last line" {
		t.Fatalf("got %q ok=%v", ev.Line, ok)
	}
	if _, ok := <-events; ok {
		t.Fatalf("channel still open after end of stream")
	}
}
