// Package sandbox defines the execution environment contract arenas use to
// inspect and build participant submissions, plus a local implementation.
// Timeouts are a distinguishable outcome, not an error: a timed-out command
// degrades the caller's work item, it does not abort the round.
package sandbox

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// ExecResult is the outcome of one command execution.
type ExecResult struct {
	Output   string
	ExitCode int
	TimedOut bool
}

// Environment executes shell commands inside a participant's workspace.
// The error return covers only failures to run the command at all; a
// non-zero exit or a timeout is reported through ExecResult.
type Environment interface {
	Execute(ctx context.Context, command string, timeout time.Duration) (ExecResult, error)
}

// Local runs commands with sh -c inside a workspace directory.
type Local struct {
	Dir string
}

// NewLocal returns an environment rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir}
}

// Execute runs the command, enforcing the timeout through the context.
func (l *Local) Execute(ctx context.Context, command string, timeout time.Duration) (ExecResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = l.Dir
	out, err := cmd.CombinedOutput()

	result := ExecResult{Output: string(out)}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}
