package kicado

import (
	"os"
	"testing"
)

func TestParseStatState(t *testing.T) {
	tests := []struct {
		name string
		stat string
		want RunState
	}{
		{"running", "1234 (pcbnew) R 1 1234 1234 0", StateRunning},
		{"sleeping", "1234 (pcbnew) S 1 1234 1234 0", StateSleeping},
		{"idle", "1234 (kworker) I 2 0 0 0", StateSleeping},
		{"zombie", "1234 (pcbnew) Z 1 1234 1234 0", StateOther},
		{"disk sleep", "1234 (pcbnew) D 1 1234 1234 0", StateOther},
		// The comm field can hold anything, including spaces and parens.
		{"comm with parens", "1234 (pcb (new) :0) S 1 1234 1234 0", StateSleeping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatState(tt.stat)
			if err != nil {
				t.Fatalf("parseStatState: %v", err)
			}
			if got != tt.want {
				t.Fatalf("state = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStatStateMalformed(t *testing.T) {
	for _, stat := range []string{"", "1234 pcbnew R", "1234 (pcbnew)"} {
		if _, err := parseStatState(stat); err == nil {
			t.Fatalf("parseStatState(%q) succeeded, want error", stat)
		}
	}
}

func TestProcRunStateGoneProcess(t *testing.T) {
	// A negative PID never has a /proc entry.
	state, err := procRunState(-12345)
	if err != nil {
		t.Fatalf("procRunState: %v", err)
	}
	if state != StateGone {
		t.Fatalf("state = %v, want StateGone", state)
	}
}

func TestProcRunStateSelf(t *testing.T) {
	// Our own process exists, so the probe must report a live state.
	state, err := procRunState(os.Getpid())
	if err != nil {
		t.Fatalf("procRunState: %v", err)
	}
	if state == StateGone {
		t.Fatalf("own process reported gone")
	}
}
