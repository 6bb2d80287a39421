package kicado

import "time"

// lateSwapTimeout bounds each tolerant wait for render completions that
// straggle in while the process winds down to idle.
const lateSwapTimeout = 100 * time.Millisecond

// WaitReady blocks until the editor is idle again: first requiredSwaps
// frame-buffer swaps (zero means "no render expected, just confirm
// idleness"), then the OS-level run state must report sleeping.
//
// Swap counts alone are unreliable: some KiCad versions emit zero to several
// extra swaps non-deterministically, so idleness is confirmed at the OS
// level while late swaps keep being consumed and returned. A process that
// disappears during the idle poll is a legitimate terminal state, not a
// failure.
func (s *Session) WaitReady(requiredSwaps int, timeout time.Duration, tolerateExit bool) (string, error) {
	last := ""
	if requiredSwaps > 0 {
		line, err := s.Wait(WaitSpec{
			Patterns:     []string{swapPrefix},
			Prefix:       true,
			Count:        requiredSwaps,
			Timeout:      timeout,
			TolerateExit: tolerateExit,
		})
		if err != nil {
			return "", err
		}
		if line == exitMarker {
			return exitMarker, nil
		}
		last = line
	}

	for {
		state, err := s.proc.RunState()
		if err != nil {
			return "", err
		}
		switch state {
		case StateSleeping:
			return last, nil
		case StateGone:
			s.timeline.AppendMarker("application exited while settling")
			return exitMarker, nil
		}

		line, err := s.Wait(WaitSpec{
			Patterns:        []string{swapPrefix},
			Prefix:          true,
			Timeout:         lateSwapTimeout,
			TolerateTimeout: true,
			TolerateExit:    true,
		})
		if err != nil {
			return "", err
		}
		if line == exitMarker {
			return exitMarker, nil
		}
		if line != "" {
			last = line
		}
	}
}
