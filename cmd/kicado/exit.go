package main

import (
	"github.com/cboone/kicado"
)

// Process exit codes for the distinguishable failure categories the engine
// raises. Scripts branch on these, so they are part of the CLI contract.
const (
	exitGenericFailure = 1
	exitTimeout        = 124
	exitAppDied        = 133
	exitCorruptedPCB   = 140
	exitCorruptedSch   = 141
	exitFileConflict   = 142
	exitUnknownDialog  = 143
)

func exitCodeFor(err error) int {
	switch kicado.Categorize(err) {
	case kicado.CategoryTimeout:
		return exitTimeout
	case kicado.CategoryAppDied:
		return exitAppDied
	case kicado.CategoryCorruptedPCB:
		return exitCorruptedPCB
	case kicado.CategoryCorruptedSch:
		return exitCorruptedSch
	case kicado.CategoryFileConflict:
		return exitFileConflict
	case kicado.CategoryUnknownDialog:
		return exitUnknownDialog
	default:
		return exitGenericFailure
	}
}
