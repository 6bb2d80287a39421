package kicado

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWaitReturnsEventsInArrivalOrder(t *testing.T) {
	events := feed(
		"GTK:Window Show:Alpha",
		"PANGO:first",
		"PANGO:second",
		"GLX:Swap 1",
	)
	s := testSession(&fakeProc{}, events, PCBEditor, "board.kicad_pcb")

	line, err := s.Wait(WaitSpec{Patterns: []string{"PANGO:second"}, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != "PANGO:second" {
		t.Fatalf("got %q, want PANGO:second", line)
	}

	// The next wait resumes after the returned event, never before it.
	line, err = s.Wait(WaitSpec{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != "GLX:Swap 1" {
		t.Fatalf("got %q, want GLX:Swap 1", line)
	}
}

func TestWaitEmptyPatternMatchesAnyLine(t *testing.T) {
	s := testSession(&fakeProc{}, feed("PANGO:whatever"), PCBEditor, "board.kicad_pcb")

	line, err := s.Wait(WaitSpec{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != "PANGO:whatever" {
		t.Fatalf("got %q", line)
	}
}

func TestWaitPrefixVsWholeLine(t *testing.T) {
	events := feed("GLX:Swap 7", "GTK:Window Title:AB", "GTK:Window Title:A")
	s := testSession(&fakeProc{}, events, PCBEditor, "board.kicad_pcb")

	line, err := s.Wait(WaitSpec{Patterns: []string{"GLX:Swap"}, Prefix: true, Timeout: time.Second})
	if err != nil {
		t.Fatalf("prefix Wait: %v", err)
	}
	if line != "GLX:Swap 7" {
		t.Fatalf("got %q", line)
	}

	// Whole-line matching must skip the line that merely shares a prefix.
	line, err = s.Wait(WaitSpec{Patterns: []string{"GTK:Window Title:A"}, Timeout: time.Second})
	if err != nil {
		t.Fatalf("whole-line Wait: %v", err)
	}
	if line != "GTK:Window Title:A" {
		t.Fatalf("got %q", line)
	}
}

func TestWaitRequiredCount(t *testing.T) {
	events := feed("GLX:Swap 1", "PANGO:noise", "GLX:Swap 2", "GLX:Swap 3")
	s := testSession(&fakeProc{}, events, PCBEditor, "board.kicad_pcb")

	line, err := s.Wait(WaitSpec{
		Patterns: []string{"GLX:Swap"},
		Prefix:   true,
		Count:    3,
		Timeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != "GLX:Swap 3" {
		t.Fatalf("got %q, want the third match", line)
	}

	var times, matches int
	for _, entry := range s.Timeline().Entries() {
		if strings.HasPrefix(entry, "KiCado:times ") {
			times++
		}
		if entry == "KiCado:match" {
			matches++
		}
	}
	if times != 2 || matches != 1 {
		t.Fatalf("timeline markers: times=%d matches=%d, want 2 and 1", times, matches)
	}
}

func TestWaitTimeoutScaling(t *testing.T) {
	s := testSession(&fakeProc{}, feed(), PCBEditor, "board.kicad_pcb", WithTimeoutScale(2))

	start := time.Now()
	_, err := s.Wait(WaitSpec{Patterns: []string{"PANGO:never"}, Timeout: 50 * time.Millisecond})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("err = %T, want *TimeoutError", err)
	}
	if timeoutErr.Timeout != 50*time.Millisecond {
		t.Fatalf("reported timeout %v, want the unscaled budget", timeoutErr.Timeout)
	}
	if elapsed < 100*time.Millisecond {
		t.Fatalf("returned after %v, want at least the scaled budget (100ms)", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("returned after %v, well past the scaled budget", elapsed)
	}
}

func TestWaitTolerateTimeout(t *testing.T) {
	s := testSession(&fakeProc{}, feed(), PCBEditor, "board.kicad_pcb")

	line, err := s.Wait(WaitSpec{
		Patterns:        []string{"PANGO:never"},
		Timeout:         30 * time.Millisecond,
		TolerateTimeout: true,
	})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != "" {
		t.Fatalf("got %q, want empty line on tolerated timeout", line)
	}
}

func TestWaitReportsDeathNotTimeout(t *testing.T) {
	proc := &fakeProc{}
	proc.die(9)
	s := testSession(proc, feedClosed(), PCBEditor, "board.kicad_pcb")

	_, err := s.Wait(WaitSpec{Patterns: []string{"PANGO:never"}, Timeout: time.Second})
	if !errors.Is(err, ErrAppDied) {
		t.Fatalf("err = %v, want ErrAppDied", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("death must not be reported as a timeout")
	}
	var exitErr *AppExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %T, want *AppExitError", err)
	}
	if exitErr.Status != 9 {
		t.Fatalf("status = %d, want 9", exitErr.Status)
	}
}

func TestWaitDrainsPendingEventsBeforeDeath(t *testing.T) {
	proc := &fakeProc{}
	proc.die(1)
	s := testSession(proc, feedClosed("GTK:Window Title:Error"), PCBEditor, "board.kicad_pcb")

	// An event that arrived before death is still delivered.
	line, err := s.Wait(WaitSpec{Patterns: []string{windowTitlePrefix}, Prefix: true, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != "GTK:Window Title:Error" {
		t.Fatalf("got %q", line)
	}
}

func TestWaitTolerateExit(t *testing.T) {
	proc := &fakeProc{}
	proc.die(0)
	s := testSession(proc, feedClosed(), PCBEditor, "board.kicad_pcb")

	line, err := s.Wait(WaitSpec{
		Patterns:     []string{"PANGO:never"},
		Timeout:      time.Second,
		TolerateExit: true,
	})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if line != exitMarker {
		t.Fatalf("got %q, want the exit marker", line)
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		patterns []string
		prefix   bool
		want     bool
	}{
		{"exact match", "PANGO:hello", []string{"PANGO:hello"}, false, true},
		{"exact mismatch", "PANGO:hello!", []string{"PANGO:hello"}, false, false},
		{"prefix match", "GLX:Swap 12", []string{"GLX:Swap"}, true, true},
		{"prefix mismatch", "GTK:Window", []string{"GLX:Swap"}, true, false},
		{"empty pattern any line", "anything", []string{""}, false, true},
		{"empty pattern empty line", "", []string{""}, false, false},
		{"second candidate", "B", []string{"A", "B"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesAny(tt.line, tt.patterns, tt.prefix); got != tt.want {
				t.Fatalf("matchesAny(%q, %v, %v) = %v, want %v", tt.line, tt.patterns, tt.prefix, got, tt.want)
			}
		})
	}
}
