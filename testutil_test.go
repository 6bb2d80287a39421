package kicado

import (
	"io"
	"sync"
	"time"

	"pkt.systems/pslog"
)

// fakeProc is a scripted ProcessHandle so the engine can be exercised
// without spawning anything.
type fakeProc struct {
	mu         sync.Mutex
	dead       bool
	status     int
	states     []RunState
	stateCalls int
}

func (p *fakeProc) PID() int { return 4242 }

func (p *fakeProc) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.dead
}

func (p *fakeProc) ExitStatus() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.dead
}

// RunState pops the next scripted state; the last one repeats.
func (p *fakeProc) RunState() (RunState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stateCalls++
	if len(p.states) == 0 {
		return StateSleeping, nil
	}
	state := p.states[0]
	if len(p.states) > 1 {
		p.states = p.states[1:]
	}
	return state, nil
}

func (p *fakeProc) die(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dead = true
	p.status = status
}

// fakeController records raised windows and pressed keys. onPress, when set,
// runs after each PressKeys call so tests can react to dismissals.
type fakeController struct {
	mu      sync.Mutex
	raised  []string
	pressed [][]string
	onPress func(keys []string)
}

func (c *fakeController) RaiseWindow(title string, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raised = append(c.raised, title)
	return nil
}

func (c *fakeController) PressKeys(keys ...string) error {
	c.mu.Lock()
	c.pressed = append(c.pressed, keys)
	hook := c.onPress
	c.mu.Unlock()
	if hook != nil {
		hook(keys)
	}
	return nil
}

func (c *fakeController) presses() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([][]string, len(c.pressed))
	copy(cp, c.pressed)
	return cp
}

func quietLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.ErrorLevel,
	})
}

// testSession wires a session over fakes with fast timing: 10ms polls and a
// 0.1 timeout scale unless overridden.
func testSession(proc ProcessHandle, events <-chan Event, editor Editor, inputFile string, userOpts ...Option) *Session {
	opts := defaultOptions()
	opts.pollInterval = minPollInterval
	opts.timeoutScale = 0.1
	for _, o := range userOpts {
		o(&opts)
	}
	return newSession(proc, events, editor, inputFile, opts, quietLogger())
}

// feed returns an open channel preloaded with the given lines.
func feed(lines ...string) chan Event {
	events := make(chan Event, len(lines)+16)
	for i, line := range lines {
		events <- Event{Elapsed: time.Duration(i+1) * time.Millisecond, Line: line}
	}
	return events
}

// feedClosed returns a closed channel holding the given lines, as after the
// application closed its output.
func feedClosed(lines ...string) chan Event {
	events := feed(lines...)
	close(events)
	return events
}
