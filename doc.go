// Package kicado synchronizes command-line automation of the KiCad editors
// with what the GUI is actually doing.
//
// The editors expose no programmatic API, so kicado preloads an
// instrumentation shim into the target process and observes its stream of
// lifecycle events: window titles, rendered dialog text, and frame-buffer
// swaps. Automation then waits for observed facts instead of sleeping for
// guessed durations.
//
// # Session Lifecycle
//
// [Launch] starts an editor with the shim preloaded and returns a [Session]
// that owns the process, a single background event reader, and an
// append-only diagnostic [Timeline]. [Session.Close] flushes the timeline,
// records the run in the journal when configured, and removes the
// per-session exchange directory on every exit path.
//
// # Waiting
//
// [Session.Wait] is the one blocking primitive: it consumes events in
// arrival order, matches them against patterns (whole-line or prefix, with
// an optional required count), and fails distinguishably on timeout or on
// the editor dying mid-wait. Waits are strictly sequential; a session never
// has two waits in flight.
//
// Layered on it:
//
//   - [Session.WaitStartup] waits for the main window to be fully loaded,
//     tolerant of the two incompatible title conventions KiCad has used.
//   - [Session.WaitReady] waits for render completions and then confirms at
//     the OS level that the process went back to sleep, since swap counts
//     alone are non-deterministic on some versions.
//   - [Session.HandleDialog] harvests an unexpected modal dialog's text and
//     classifies it against a table of known scenarios: recoverable ones are
//     dismissed through the window controller, the rest fail the session
//     with a category-specific error.
//   - [Session.ExitApplication] requests a quit, dismissing the
//     save-changes prompt if one appears, with a bounded retry.
//
// # Failure Taxonomy
//
// Failures carry a [FailureCategory]; [Categorize] maps any engine error
// back to it. The engine never picks process exit codes: the CLI layer maps
// categories to codes.
//
// # Requirements
//
//   - Go 1.24+
//   - linux/amd64 (the shim is an LD_PRELOAD library)
//   - an xdotool-compatible window-control binary for dialog dismissal
package kicado
