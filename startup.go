package kicado

import (
	"regexp"
	"strings"
)

// Dialog titles the startup sequencer recognizes and delegates to the
// classifier. Anything else with a title is an unknown dialog.
var startupDialogTitles = map[string]bool{
	"Error":           true,
	"File Open Error": true,
	"Confirmation":    true,
	"Warning":         true,
}

// elapsedRe matches the progress echo the editor renders while loading a
// large document ("0:01:23").
var elapsedRe = regexp.MustCompile(`^PANGO:(\d:\d\d:\d\d)`)

// WaitStartup blocks until the editor's main window reports a fully-loaded
// title, under the session's wait-start budget. It tolerates the two
// incompatible title conventions: current KiCad appends an editor-kind
// suffix, legacy KiCad prefixes the program name. Pre-load placeholder
// titles and load-progress echoes keep it waiting; recognized dialogs are
// classified and, when recoverable, dismissed without ending the wait; any
// other title is fatal.
func (s *Session) WaitStartup() error {
	s.log.Info("waiting for the editor window", "editor", s.editor.String(), "file", s.inputFile)

	prefixes := []string{windowTitlePrefix, "PANGO:0:"}
	for {
		line, err := s.Wait(WaitSpec{Patterns: prefixes, Prefix: true, Timeout: s.opts.waitStart})
		if err != nil {
			return err
		}
		s.log.Debug("startup event", "line", line)

		if m := elapsedRe.FindStringSubmatch(line); m != nil {
			s.log.Info("still loading", "elapsed", m[1])
			continue
		}
		title, ok := windowTitle(line)
		if !ok {
			// A PANGO:0: echo that is not an elapsed time. Rendering
			// noise during the load.
			continue
		}

		if !s.opts.legacy && strings.HasSuffix(title, s.editor.loadedSuffix()) {
			if strings.HasPrefix(title, "[no schematic loaded]") {
				// The main window before anything is loaded.
				continue
			}
			if title[0] == '*' {
				s.log.Warn("old file format detected, convert it if you hit problems", "title", title)
			}
			return nil
		}
		if s.opts.legacy && strings.HasPrefix(title, s.editor.legacyPrefix()) {
			if !strings.HasSuffix(title, s.editor.unsavedSuffix()) {
				return nil
			}
			// The unsaved suffix changes right before the final load.
			continue
		}

		switch title {
		case "", s.editor.program(), "Eeschema":
			// Main window placeholders. Legacy KiCad can pop dialogs
			// before these, so they are not a readiness signal.
			continue
		case s.editor.loadingTitle():
			// Load-progress dialog.
			continue
		}
		if startupDialogTitles[title] {
			if err := s.HandleDialog(title); err != nil {
				return err
			}
			// A dismissed dialog does not imply the load finished.
			continue
		}

		msgs, err := s.collectDialogMessages(title)
		if err != nil {
			return err
		}
		dialogErr := newDialogError(title, msgs, CategoryUnknownDialog)
		s.log.Error("unknown window during startup", "title", title, "messages", dialogErr.Messages)
		return dialogErr
	}
}
