// Package cmd runs helper executables (powercfg, netsh, taskkill) without
// flashing a console window.
package cmd

import (
	"context"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single helper invocation.
const DefaultTimeout = 15 * time.Second

// Runner executes a command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Hidden creates an exec.Cmd that will not open a console window.
func Hidden(name string, args ...string) *exec.Cmd {
	c := exec.Command(name, args...)
	hide(c)
	return c
}

// HiddenContext creates a context-aware exec.Cmd that will not open a
// console window. The process is killed when ctx is done.
func HiddenContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	hide(c)
	return c
}

// System is the production Runner.
type System struct {
	Timeout time.Duration
}

// Run implements Runner.
func (s System) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return HiddenContext(ctx, name, args...).CombinedOutput()
}
