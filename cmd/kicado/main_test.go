package main

import (
	"errors"
	"testing"
	"time"

	"github.com/cboone/kicado"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", &kicado.TimeoutError{Timeout: time.Second}, exitTimeout},
		{"app died", &kicado.AppExitError{Status: 11}, exitAppDied},
		{"corrupted pcb", &kicado.DialogError{Category: kicado.CategoryCorruptedPCB}, exitCorruptedPCB},
		{"corrupted schematic", &kicado.DialogError{Category: kicado.CategoryCorruptedSch}, exitCorruptedSch},
		{"file conflict", &kicado.DialogError{Category: kicado.CategoryFileConflict}, exitFileConflict},
		{"unknown dialog", &kicado.DialogError{Category: kicado.CategoryUnknownDialog}, exitUnknownDialog},
		{"anything else", errors.New("boom"), exitGenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Fatalf("exitCodeFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseEditor(t *testing.T) {
	for _, name := range []string{"pcb", "pcbnew"} {
		editor, err := parseEditor(name)
		if err != nil || editor != kicado.PCBEditor {
			t.Fatalf("parseEditor(%q) = %v, %v", name, editor, err)
		}
	}
	for _, name := range []string{"sch", "eeschema"} {
		editor, err := parseEditor(name)
		if err != nil || editor != kicado.SchematicEditor {
			t.Fatalf("parseEditor(%q) = %v, %v", name, editor, err)
		}
	}
	if _, err := parseEditor("gerbview"); err == nil {
		t.Fatalf("unknown editor accepted")
	}
}
