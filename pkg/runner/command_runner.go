// Package runner provides a seam for invoking external binaries while
// capturing their output for programmatic access.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Command describes an external binary invocation.
type Command struct {
	// Name is the binary to invoke, either an absolute path or a name
	// resolved against the current process PATH.
	Name string
	// Args are the arguments passed to the binary, excluding the binary name.
	Args []string
	// Env is the full environment for the subprocess. When nil the current
	// process environment is inherited.
	Env []string
}

// CommandResult captures the stdout and stderr collected during a command execution.
// Both fields contain the complete output from the command, including any output
// produced before an error occurred.
type CommandResult struct {
	Stdout string
	Stderr string
}

// CommandRunner executes external commands while capturing their output.
// Implementations should display output to stdout/stderr in real-time while also
// capturing it for programmatic access via CommandResult.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// ExecCommandRunner executes external binaries with console output.
// This runner displays command output to stdout/stderr in real-time while
// also capturing it for the result.
type ExecCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecCommandRunner creates a command runner for external binaries.
// It displays output to stdout/stderr in real-time (like running the binary
// directly) while also capturing output for programmatic use in the CommandResult.
//
// If stdout or stderr are nil, they default to os.Stdout and os.Stderr respectively.
func NewExecCommandRunner(stdout, stderr io.Writer) *ExecCommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &ExecCommandRunner{
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the command and displays output in real-time to the console.
// The subprocess output streams write to both capture buffers and the configured
// stdout/stderr writers, providing the same behavior as running the binary
// directly while also making the output available programmatically.
func (r *ExecCommandRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Stdout = io.MultiWriter(&outBuf, r.stdout)
	execCmd.Stderr = io.MultiWriter(&errBuf, r.stderr)
	execCmd.Stdin = os.Stdin

	if cmd.Env != nil {
		execCmd.Env = cmd.Env
	}

	execErr := execCmd.Run()
	if execErr != nil {
		return CommandResult{
			Stdout: outBuf.String(),
			Stderr: errBuf.String(),
		}, fmt.Errorf("command execution failed: %w", execErr)
	}

	return CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}, nil
}
