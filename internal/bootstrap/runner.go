package bootstrap

import (
	"context"
	"io"
	"os/exec"
)

// Runner abstracts external command execution so the bootstrap sequence can
// be exercised in tests without touching the host.
type Runner interface {
	// Run executes a command, streaming its output to the configured writers
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its combined standard output
	Output(ctx context.Context, name string, args ...string) (string, error)

	// LookPath searches for an executable in PATH
	LookPath(name string) (string, error)
}

// ExecRunner runs commands via os/exec
type ExecRunner struct {
	// Stdout and Stderr receive the child process output; nil discards
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes a command, forwarding output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Output executes a command and returns its standard output
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	return string(out), err
}

// LookPath searches for an executable in PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ExitCode extracts the process exit code from a Run error. Returns 1 when
// the error carries no exit status (e.g. command not found), 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return 1
}
