package kicado

import (
	"time"

	"pkt.systems/pslog"

	"github.com/cboone/kicado/internal/journal"
)

type options struct {
	args         []string
	env          []string
	dir          string
	timeoutScale float64
	pollInterval time.Duration
	waitStart    time.Duration
	legacy       bool
	verbose      bool
	logger       pslog.Logger
	controller   WindowController
	timelinePath string
	journal      *journal.Store
	shimPath     string
}

// Option configures a Session created by Launch.
type Option func(*options)

// WithArgs appends extra arguments passed to the editor binary.
func WithArgs(args ...string) Option {
	return func(o *options) {
		o.args = append(o.args, args...)
	}
}

// WithEnv appends environment variables to the editor's environment.
// Each entry should be in "KEY=VALUE" format.
func WithEnv(env ...string) Option {
	return func(o *options) {
		o.env = append(o.env, env...)
	}
}

// WithDir sets the working directory for the editor.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithTimeoutScale multiplies every wait budget. Slow machines and CI
// runners scale up instead of adjusting individual timeouts.
func WithTimeoutScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.timeoutScale = scale
		}
	}
}

// WithPollInterval sets the wait loop's poll interval.
// Values under 10ms are clamped to 10ms.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 {
			return
		}
		if d < minPollInterval {
			d = minPollInterval
		}
		o.pollInterval = d
	}
}

// WithWaitStart sets the budget for the editor to start and load its
// document. Large boards on slow machines need minutes.
func WithWaitStart(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.waitStart = d
		}
	}
}

// WithLegacy selects the KiCad 5 title and dialog conventions.
func WithLegacy(legacy bool) Option {
	return func(o *options) {
		o.legacy = legacy
	}
}

// WithVerbose logs every consumed event with its timing.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithLogger sets the session logger. Defaults to pslog.Ctx(context.Background()).
func WithLogger(logger pslog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithController sets the window-control subsystem used to raise dialogs and
// inject dismissal keystrokes. Without one, dismissals are logged and
// skipped.
func WithController(ctl WindowController) Option {
	return func(o *options) {
		o.controller = ctl
	}
}

// WithTimelinePath writes the diagnostic timeline to the given file at
// session teardown.
func WithTimelinePath(path string) Option {
	return func(o *options) {
		o.timelinePath = path
	}
}

// WithJournal records the session and its timeline in a journal store at
// teardown.
func WithJournal(store *journal.Store) Option {
	return func(o *options) {
		o.journal = store
	}
}

// WithShim sets the path of the instrumentation shim preloaded into the
// editor. Without it the session cannot observe lifecycle events.
func WithShim(path string) Option {
	return func(o *options) {
		o.shimPath = path
	}
}

const (
	defaultTimeoutScale = 1.0
	defaultPollInterval = 100 * time.Millisecond
	defaultWaitStart    = 120 * time.Second
	minPollInterval     = 10 * time.Millisecond
)

func defaultOptions() options {
	return options{
		timeoutScale: defaultTimeoutScale,
		pollInterval: defaultPollInterval,
		waitStart:    defaultWaitStart,
	}
}
