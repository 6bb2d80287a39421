package kicado

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// RunState is the OS-reported scheduling state of the target process.
type RunState int

const (
	// StateRunning means the process is computing (or runnable).
	StateRunning RunState = iota
	// StateSleeping means the process is waiting for input. This is the
	// "idle" state the readiness detector confirms before returning.
	StateSleeping
	// StateOther covers uninterruptible sleep, stopped, zombie.
	StateOther
	// StateGone means the process no longer exists.
	StateGone
)

// A ProcessHandle exposes the liveness and run-state probes the engine needs.
// It is read-only: the session owns the process, consumers only observe it.
// Abstracted as an interface so the engine is testable against a fake
// process without spawning anything.
type ProcessHandle interface {
	PID() int
	Alive() bool
	// RunState reports the OS-level scheduling state.
	RunState() (RunState, error)
	// ExitStatus returns the exit status once the process has been reaped.
	ExitStatus() (status int, exited bool)
}

// cmdHandle is the real ProcessHandle over a started exec.Cmd. A small
// waiter goroutine reaps the process so status polls never block.
type cmdHandle struct {
	cmd    *exec.Cmd
	done   chan struct{}
	status int
}

// newCmdHandle wraps an already-started command. It spawns the reaper.
func newCmdHandle(cmd *exec.Cmd) *cmdHandle {
	h := &cmdHandle{cmd: cmd, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		err := cmd.Wait()
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				h.status = exitErr.ExitCode()
				return
			}
			h.status = -1
			return
		}
		h.status = 0
	}()
	return h
}

func (h *cmdHandle) PID() int {
	return h.cmd.Process.Pid
}

func (h *cmdHandle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
	}
	return unix.Kill(h.cmd.Process.Pid, 0) == nil
}

func (h *cmdHandle) ExitStatus() (int, bool) {
	select {
	case <-h.done:
		return h.status, true
	default:
		return 0, false
	}
}

func (h *cmdHandle) RunState() (RunState, error) {
	return procRunState(h.cmd.Process.Pid)
}

// procRunState reads the scheduling state character from /proc/<pid>/stat.
// The comm field may contain spaces and parentheses, so the state is parsed
// relative to the last ')'.
func procRunState(pid int) (RunState, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		if os.IsNotExist(err) {
			return StateGone, nil
		}
		return StateOther, fmt.Errorf("kicado: run state: %w", err)
	}
	return parseStatState(string(data))
}

func parseStatState(stat string) (RunState, error) {
	end := strings.LastIndexByte(stat, ')')
	if end < 0 || end+2 >= len(stat) {
		return StateOther, fmt.Errorf("kicado: run state: malformed stat %q", stat)
	}
	switch stat[end+2] {
	case 'R':
		return StateRunning, nil
	case 'S', 'I':
		return StateSleeping, nil
	default:
		return StateOther, nil
	}
}
