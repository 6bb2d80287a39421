package kicado

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FailureCategory identifies why an automation session failed. The engine
// never chooses process exit codes itself; the CLI layer maps categories to
// codes.
type FailureCategory string

const (
	CategoryNone          FailureCategory = ""
	CategoryTimeout       FailureCategory = "timeout"
	CategoryAppDied       FailureCategory = "app_died"
	CategoryCorruptedPCB  FailureCategory = "corrupted_pcb"
	CategoryCorruptedSch  FailureCategory = "corrupted_schematic"
	CategoryFileConflict  FailureCategory = "file_conflict"
	CategoryUnknownDialog FailureCategory = "unknown_dialog"
)

// Sentinel targets for errors.Is. The typed errors below unwrap to these.
var (
	ErrTimeout       = errors.New("kicado: timed out")
	ErrAppDied       = errors.New("kicado: application died")
	ErrUnknownDialog = errors.New("kicado: unknown dialog")
	ErrFatalDialog   = errors.New("kicado: fatal dialog")
)

// TimeoutError reports that an expected event did not occur within budget.
// Recoverable by the caller: a different expectation may still be waited on.
type TimeoutError struct {
	Waiting []string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("kicado: timed out after %v waiting for %q", e.Timeout, e.Waiting)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// AppExitError reports that the application terminated while the engine
// still expected activity.
type AppExitError struct {
	Status int
}

func (e *AppExitError) Error() string {
	return fmt.Sprintf("kicado: application unexpectedly died (exit status %d)", e.Status)
}

func (e *AppExitError) Unwrap() error { return ErrAppDied }

// DialogError reports a modal dialog that is fatal to the session: either a
// recognized unrecoverable scenario (corrupted file, conflicting instance) or
// a dialog no fingerprint matched. Title and harvested messages are carried
// for postmortem diagnosis.
type DialogError struct {
	Title    string
	Messages []string
	Category FailureCategory
}

func (e *DialogError) Error() string {
	return fmt.Sprintf("kicado: %s dialog %q: %s", e.Category, e.Title, strings.Join(e.Messages, " | "))
}

func (e *DialogError) Unwrap() error {
	if e.Category == CategoryUnknownDialog {
		return ErrUnknownDialog
	}
	return ErrFatalDialog
}

func newDialogError(title string, msgs map[string]struct{}, category FailureCategory) *DialogError {
	sorted := make([]string, 0, len(msgs))
	for m := range msgs {
		sorted = append(sorted, m)
	}
	sort.Strings(sorted)
	return &DialogError{Title: title, Messages: sorted, Category: category}
}

// Categorize maps any error returned by the engine to its failure category.
func Categorize(err error) FailureCategory {
	if err == nil {
		return CategoryNone
	}
	var dialogErr *DialogError
	if errors.As(err, &dialogErr) {
		return dialogErr.Category
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return CategoryTimeout
	case errors.Is(err, ErrAppDied):
		return CategoryAppDied
	default:
		return CategoryNone
	}
}
