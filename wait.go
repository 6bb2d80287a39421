package kicado

import (
	"fmt"
	"strconv"
	"time"
)

// A WaitSpec describes one blocking expectation against the event stream.
// Constructed per call, never persisted.
type WaitSpec struct {
	// Patterns are the candidate lines. An empty pattern matches any
	// non-empty line ("wait for literally anything").
	Patterns []string
	// Prefix selects prefix matching instead of whole-line matching.
	Prefix bool
	// Count is how many matches are required before returning. Zero means 1.
	Count int
	// Timeout is the budget before scaling. The session's timeout scale is
	// applied on top.
	Timeout time.Duration
	// TolerateTimeout returns ("", nil) on timeout instead of an error.
	TolerateTimeout bool
	// TolerateExit returns the exit marker when the application terminates
	// instead of failing with AppExitError.
	TolerateExit bool
}

// Wait consumes events in arrival order until the spec is satisfied, the
// deadline passes, or the application dies. It is the single blocking
// primitive everything else is built on.
//
// Events are matched in the exact order the application emitted them; Wait
// never looks ahead past the event it returns, so the next call resumes
// exactly where this one left off. Issuing two concurrent waits is a caller
// error: the session is a single-consumer structure.
func (s *Session) Wait(spec WaitSpec) (string, error) {
	if spec.Count <= 0 {
		spec.Count = 1
	}
	if len(spec.Patterns) == 0 {
		spec.Patterns = []string{""}
	}

	deadline := time.Now().Add(s.scaled(spec.Timeout))
	msg := fmt.Sprintf("waiting for %q starts=%v times=%d", spec.Patterns, spec.Prefix, spec.Count)
	s.timeline.AppendMarker(msg)
	s.log.Debug(msg)

	remaining := spec.Count
	for time.Now().Before(deadline) {
		ev, ok := s.nextEvent()
		if !ok {
			if !s.proc.Alive() {
				status, _ := s.proc.ExitStatus()
				if spec.TolerateExit {
					s.timeline.AppendMarker("application exited")
					return exitMarker, nil
				}
				s.log.Error("application unexpectedly died", "status", status)
				return "", &AppExitError{Status: status}
			}
			continue
		}

		s.timeline.AppendEvent(ev)
		if s.opts.verbose {
			ms := float64(ev.Elapsed.Microseconds()) / 1000.0
			s.log.Debug("event", "line", ev.Line, "at_ms", fmt.Sprintf("%.3f", ms))
		}

		if !matchesAny(ev.Line, spec.Patterns, spec.Prefix) {
			continue
		}
		remaining--
		if remaining == 0 {
			s.timeline.AppendMarker("match")
			return ev.Line, nil
		}
		s.timeline.AppendMarker("times " + strconv.Itoa(remaining))
	}

	if spec.TolerateTimeout {
		return "", nil
	}
	return "", &TimeoutError{Waiting: spec.Patterns, Timeout: spec.Timeout}
}

// nextEvent pops one event, waiting at most the poll interval so the wait
// loop stays responsive to its deadline. A closed stream reports no event;
// the sleep keeps the loop paced until liveness catches up.
func (s *Session) nextEvent() (Event, bool) {
	select {
	case ev, ok := <-s.events:
		if ok {
			return ev, true
		}
		time.Sleep(s.opts.pollInterval)
		return Event{}, false
	case <-time.After(s.opts.pollInterval):
		return Event{}, false
	}
}

// scaled applies the session's timeout scale. Slow machines (CI, qemu) set a
// scale above 1 instead of touching every call site.
func (s *Session) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * s.opts.timeoutScale)
}
