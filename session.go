package kicado

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"pkt.systems/pslog"

	"github.com/cboone/kicado/internal/journal"
)

// optionsFileName is the file the shim reads print options from. The path is
// handed over through the environment; the directory is per-session and
// removed on teardown.
const optionsFileName = "interposer_options.txt"

// printOptionsEnv names the environment variable the shim reads the options
// path from.
const printOptionsEnv = "KICADO_INTERPOSER_PRINT"

const exitAttempts = 3

// exitWait bounds each attempt at waiting for the editor to exit or pop a
// confirmation dialog after an exit request.
const exitWait = 5 * time.Second

// A Session drives one instrumented editor process: it owns the process, the
// single background reader, and the diagnostic timeline. All waits are
// strictly sequential; the session is not safe for concurrent use.
type Session struct {
	opts       options
	editor     Editor
	inputFile  string
	log        pslog.Logger
	proc       ProcessHandle
	events     <-chan Event
	timeline   *Timeline
	cmd        *exec.Cmd
	optionsDir string
	startedAt  time.Time
	outcome    FailureCategory
	closed     bool
}

// Launch starts the editor with the instrumentation shim preloaded and the
// given document, and returns the session owning it. The caller must Close
// the session on every exit path.
func Launch(ctx context.Context, editor Editor, inputFile string, userOpts ...Option) (*Session, error) {
	opts := defaultOptions()
	for _, o := range userOpts {
		o(&opts)
	}
	logger := opts.logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	if err := VerifyShim(opts.shimPath); err != nil {
		return nil, err
	}

	optionsDir, err := os.MkdirTemp("", "kicado-*")
	if err != nil {
		return nil, fmt.Errorf("kicado: launch: %w", err)
	}

	cmd := exec.Command(editor.String(), append([]string{inputFile}, opts.args...)...)
	cmd.Dir = opts.dir
	cmd.Env = append(os.Environ(),
		"LD_PRELOAD="+opts.shimPath,
		printOptionsEnv+"="+filepath.Join(optionsDir, optionsFileName),
	)
	cmd.Env = append(cmd.Env, opts.env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.RemoveAll(optionsDir)
		return nil, fmt.Errorf("kicado: launch: %w", err)
	}
	cmd.Stderr = io.Discard

	logger.Debug("launching editor", "editor", editor.String(), "file", inputFile, "shim", opts.shimPath)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(optionsDir)
		return nil, fmt.Errorf("kicado: launch %s: %w", editor.String(), err)
	}

	s := newSession(newCmdHandle(cmd), startReader(stdout), editor, inputFile, opts, logger)
	s.cmd = cmd
	s.optionsDir = optionsDir
	return s, nil
}

// newSession wires a session over an existing process handle and event
// stream. Launch uses it with the real process; tests use it with fakes.
func newSession(proc ProcessHandle, events <-chan Event, editor Editor, inputFile string, opts options, logger pslog.Logger) *Session {
	return &Session{
		opts:      opts,
		editor:    editor,
		inputFile: inputFile,
		log:       logger,
		proc:      proc,
		events:    events,
		timeline:  &Timeline{},
		startedAt: time.Now(),
	}
}

// Timeline exposes the session's diagnostic record.
func (s *Session) Timeline() *Timeline {
	return s.timeline
}

// RecordOutcome notes how the automation run ended, for the journal entry
// written at Close. Call it with the final error (nil for success).
func (s *Session) RecordOutcome(err error) {
	s.outcome = Categorize(err)
}

// ExitApplication asks the editor to quit and waits for it to do so,
// re-issuing the request a bounded number of times after classifying and
// dismissing any intervening dialog (typically the save-changes prompt).
func (s *Session) ExitApplication() error {
	if s.opts.controller == nil {
		return fmt.Errorf("kicado: exit: no window controller configured")
	}
	for attempt := 1; attempt <= exitAttempts; attempt++ {
		s.log.Debug("requesting editor exit", "attempt", attempt)
		if err := s.opts.controller.PressKeys(string(Ctrl('q'))); err != nil {
			return fmt.Errorf("kicado: exit: %w", err)
		}
		line, err := s.Wait(WaitSpec{
			Patterns:        []string{windowTitlePrefix},
			Prefix:          true,
			Timeout:         exitWait,
			TolerateTimeout: true,
			TolerateExit:    true,
		})
		if err != nil {
			return err
		}
		if line == exitMarker {
			return nil
		}
		if line == "" {
			// No reaction; ask again.
			continue
		}
		title, _ := windowTitle(line)
		if startupDialogTitles[title] || title == "Save Changes?" {
			if err := s.HandleDialog(title); err != nil {
				return err
			}
		}
	}
	if !s.proc.Alive() {
		return nil
	}
	return &TimeoutError{Waiting: []string{"application exit"}, Timeout: exitAttempts * exitWait}
}

// Close tears the session down: flushes the timeline (exactly once),
// records the journal entry when configured, and removes the per-session
// exchange directory on every exit path. Idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	entries := s.timeline.Entries()
	if s.opts.timelinePath != "" {
		f, err := os.Create(s.opts.timelinePath)
		if err != nil {
			keep(fmt.Errorf("kicado: close: %w", err))
			keep(s.timeline.Flush(io.Discard))
		} else {
			keep(s.timeline.Flush(f))
			keep(f.Close())
		}
	} else {
		keep(s.timeline.Flush(io.Discard))
	}

	if s.opts.journal != nil {
		keep(s.opts.journal.RecordSession(context.Background(), journal.Session{
			Editor:    s.editor.String(),
			InputFile: s.inputFile,
			Outcome:   string(s.outcome),
			StartedAt: s.startedAt,
			EndedAt:   time.Now(),
			Entries:   entries,
		}))
	}

	if s.optionsDir != "" {
		keep(os.RemoveAll(s.optionsDir))
	}
	if s.cmd != nil && s.proc.Alive() {
		keep(s.cmd.Process.Kill())
	}
	return firstErr
}

// VerifyShim validates the configured instrumentation shim. The shim is an
// LD_PRELOAD library, so only linux/amd64 hosts can use it.
func VerifyShim(path string) error {
	if path == "" {
		return fmt.Errorf("kicado: instrumentation shim path not configured")
	}
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		return fmt.Errorf("kicado: instrumentation shim requires linux/amd64, running on %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("kicado: instrumentation shim: %w", err)
	}
	return nil
}
