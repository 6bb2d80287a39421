package kicado

import (
	"path/filepath"
	"time"
)

const (
	// dialogHarvestAttempts bounds how many very-short waits are issued to
	// gather a dialog's text. Small dialogs emit fewer fragments; missing
	// ones are fine.
	dialogHarvestAttempts = 12
	dialogHarvestTimeout  = 100 * time.Millisecond

	// raiseTimeout is how long a dismissal waits for the dialog window to
	// be raisable.
	raiseTimeout = 1 * time.Second
)

// noiseMessages are text fragments the instrumented toolkit renders to
// measure fonts. They are not dialog content and never enter a fingerprint.
var noiseMessages = map[string]bool{
	"The quick brown fox jumps over the lazy dog.": true,
	"0123456789": true,
}

// discardKeys selects the "discard changes" button on the save-changes
// prompt shown when exiting with unsaved edits.
var discardKeys = []Key{Left, Return}

// collectDialogMessages harvests the textual content of a modal dialog from
// the event stream: a bounded number of tolerant short waits, keeping PANGO
// payloads minus the known noise strings. The waits tolerate timeouts, not
// process death; an editor dying mid-harvest is reported, never classified.
func (s *Session) collectDialogMessages(title string) (messageSet, error) {
	s.log.Info("dialog found, gathering content", "title", title)
	msgs := messageSet{}
	for range dialogHarvestAttempts {
		line, err := s.Wait(WaitSpec{Timeout: dialogHarvestTimeout, TolerateTimeout: true})
		if err != nil {
			return msgs, err
		}
		if line == "" {
			// Some dialogs have fewer messages.
			continue
		}
		payload, ok := pangoPayload(line)
		if !ok || noiseMessages[payload] {
			continue
		}
		msgs[payload] = struct{}{}
	}
	s.log.Debug("dialog messages", "count", len(msgs))
	return msgs, nil
}

// outcome is the classified response to a recognized dialog: dismiss it with
// keystrokes and continue, or fail with a category. warning is logged when
// the scenario is recoverable but worth surfacing.
type outcome struct {
	dismiss []Key
	warning string
	fatal   FailureCategory
}

// dialogScenario maps one known dialog fingerprint to its outcome. title
// restricts the scenario to dialogs with that window title; empty matches
// any title.
type dialogScenario struct {
	title   string
	matches func(msgs messageSet) bool
	outcome outcome
}

// dialogTable builds the classification table for this session. Message
// fingerprints embed the session's input file and editor kind, so the table
// is constructed per session rather than globally.
func (s *Session) dialogTable() []dialogScenario {
	kind := s.editor.kind()
	prog := s.editor.String()
	file := s.inputFile
	base := filepath.Base(file)

	return []dialogScenario{
		{
			// Current KiCad: corrupted or incompatible board.
			title:   "Error",
			matches: func(m messageSet) bool { return m.has("Error loading PCB '" + file + "'.") },
			outcome: outcome{fatal: CategoryCorruptedPCB},
		},
		{
			title:   "Error",
			matches: func(m messageSet) bool { return m.has("Error loading schematic '" + file + "'.") },
			outcome: outcome{fatal: CategoryCorruptedSch},
		},
		{
			// Legacy KiCad opening a file from a newer version.
			title: "Error",
			matches: func(m messageSet) bool {
				return m.hasContaining("KiCad was unable to open this file, as it was created with")
			},
			outcome: outcome{fatal: s.editor.fatalCategory()},
		},
		{
			// Legacy schematic editor with a missing symbol library. An
			// error dialog, but harmless for automation.
			title: "Error",
			matches: func(m messageSet) bool {
				return m.has("Use the Manage Symbol Libraries dialog to fix the path (or remove the library).")
			},
			outcome: outcome{dismiss: []Key{Return}, warning: "missing symbol libraries, please fix the project"},
		},
		{
			// Current KiCad: file already open elsewhere, offers Open Anyway.
			title: "File Open Error",
			matches: func(m messageSet) bool {
				return m.has("Open Anyway") && m.has(kind+" '"+base+"' is already open.")
			},
			outcome: outcome{dismiss: []Key{Left, Return}, warning: "file is already open, continuing anyway"},
		},
		{
			// Legacy KiCad: a second editor instance.
			title:   "Confirmation",
			matches: func(m messageSet) bool { return m.has(prog + " is already running. Continue?") },
			outcome: outcome{dismiss: []Key{Return}, warning: prog + " is already running"},
		},
		{
			// Legacy KiCad: file opened by another instance, no safe
			// auto-dismiss path.
			title:   "Warning",
			matches: func(m messageSet) bool { return m.has(kind + ` file "` + file + `" is already open.`) },
			outcome: outcome{fatal: CategoryFileConflict},
		},
		{
			// Unsaved-changes prompt on exit, both wordings.
			matches: func(m messageSet) bool {
				return m.hasContaining("Save changes to") ||
					m.hasContaining("If you don't save, all your changes will be permanently lost")
			},
			outcome: outcome{dismiss: discardKeys},
		},
	}
}

// classifyDialog looks the fingerprint up in the table. A single evaluation
// routine instead of per-title branch chains; unmatched means unknown.
func (s *Session) classifyDialog(title string, msgs messageSet) (outcome, bool) {
	for _, sc := range s.dialogTable() {
		if sc.title != "" && sc.title != title {
			continue
		}
		if sc.matches(msgs) {
			return sc.outcome, true
		}
	}
	return outcome{}, false
}

// HandleDialog harvests and classifies an unexpected modal dialog, then
// either dismisses it (flow continues) or returns the fatal dialog error.
// Unrecognized dialogs are always fatal, with the full harvest in the error.
func (s *Session) HandleDialog(title string) error {
	msgs, err := s.collectDialogMessages(title)
	if err != nil {
		return err
	}
	out, ok := s.classifyDialog(title, msgs)
	if !ok {
		err := newDialogError(title, msgs, CategoryUnknownDialog)
		s.log.Error("unknown dialog", "title", title, "messages", err.Messages)
		return err
	}
	if out.fatal != CategoryNone {
		err := newDialogError(title, msgs, out.fatal)
		s.log.Error("fatal dialog", "title", title, "category", string(out.fatal), "messages", err.Messages)
		return err
	}
	if out.warning != "" {
		s.log.Warn(out.warning, "title", title)
	}
	return s.dismissDialog(title, out.dismiss)
}

// dismissDialog raises the dialog and injects the dismissal keystrokes.
func (s *Session) dismissDialog(title string, keys []Key) error {
	if len(keys) == 0 {
		return nil
	}
	s.log.Debug("dismissing dialog", "title", title, "keys", keyStrings(keys))
	if s.opts.controller == nil {
		s.log.Warn("no window controller configured, dialog left open", "title", title)
		return nil
	}
	if err := s.opts.controller.RaiseWindow(title, raiseTimeout); err != nil {
		s.log.Warn("could not raise dialog", "title", title, "err", err)
	}
	return s.opts.controller.PressKeys(keyStrings(keys)...)
}
