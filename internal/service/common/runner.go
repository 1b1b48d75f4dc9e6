//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the program to execute, looked up on PATH.
	Name string
	// Args are passed to the program verbatim.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Interactive connects the terminal to the process in addition to capturing output.
	Interactive bool
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a Command.
type Result struct {
	// Command is what was run.
	Command Command
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
	// ExitCode is the process exit status, -1 when it never ran to completion.
	ExitCode int
	// Err is nil on success and describes the failure otherwise.
	Err error
}

// OK reports whether the command exited with status 0.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil
}

// ErrNonZeroExit marks a command that ran but exited with a non-zero status.
var ErrNonZeroExit = errors.New("command exited with non-zero status")

// Runner executes external commands and blocks until they exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) *Result
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdin, Stdout and Stderr are attached to interactive commands. Nil writers discard.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes c without a timeout. Cancelling ctx kills the process.
func (r *ExecRunner) Run(ctx context.Context, c Command) *Result {
	var stdout, stderr bytes.Buffer

	//nolint:gosec // Commands come from a fixed table, not from user input.
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.Interactive {
		cmd.Stdin = r.Stdin
		cmd.Stdout = io.MultiWriter(&stdout, orDiscard(r.Stdout))
		cmd.Stderr = io.MultiWriter(&stderr, orDiscard(r.Stderr))
	}

	err := cmd.Run()

	result := &Result{
		Command:  c,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}

	var exitErr *exec.ExitError

	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		result.ExitCode = exitErr.ExitCode()
		result.Err = fmt.Errorf("%s: %w (%d)", c, ErrNonZeroExit, result.ExitCode)
	default:
		result.ExitCode = -1
		result.Err = fmt.Errorf("%s: %w", c, err)
	}

	return result
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
