// Package uictl shells out to the window-control binary (xdotool by default)
// to raise windows and inject keystrokes. It is the module's only window
// controller implementation; the engine consumes it through an interface.
package uictl

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes window-control commands through one binary.
type Runner struct {
	binPath string
}

// New creates a Runner bound to the given control binary.
func New(binPath string) *Runner {
	if binPath == "" {
		binPath = "xdotool"
	}
	return &Runner{binPath: binPath}
}

// Run executes a control command and returns its stdout. A failure carries
// the command's stderr.
func (r *Runner) Run(args ...string) (string, error) {
	return r.RunContext(context.Background(), args...)
}

// RunContext executes a control command with the given context.
func (r *Runner) RunContext(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{
			Op:     args[0],
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// RaiseWindow activates the first window whose title matches, polling until
// it exists or the timeout passes.
func (r *Runner) RaiseWindow(title string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		out, err := r.Run("search", "--name", "^"+title+"$")
		if err == nil {
			id := firstLine(out)
			if id != "" {
				_, err = r.Run("windowactivate", "--sync", id)
				return err
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("window %q not found after %v", title, timeout)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// PressKeys injects the named keys into the focused window.
func (r *Runner) PressKeys(keys ...string) error {
	_, err := r.Run(append([]string{"key"}, keys...)...)
	return err
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Error represents a window-control command failure.
type Error struct {
	Op     string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("uictl %s failed: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Version runs the control binary's version command, used by doctor-style
// checks to verify the binary is usable.
func Version(binPath string) (string, error) {
	r := New(binPath)
	out, err := r.Run("version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(firstLine(out), "xdotool version ")), nil
}
