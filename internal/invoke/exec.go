// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ExecInvoker runs subprocesses with os/exec. It is the production Invoker.
type ExecInvoker struct{}

// NewExecInvoker creates a new ExecInvoker.
func NewExecInvoker() *ExecInvoker {
	return &ExecInvoker{}
}

// Run executes the spec, streaming output to the given writers.
func (i *ExecInvoker) Run(ctx context.Context, spec Spec, stdout, stderr io.Writer) *Result {
	cmd := i.command(ctx, spec)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute %s: %w", spec.Path, err))
	}

	return NewSuccessResult()
}

// RunCapture executes the spec and captures stdout/stderr in the Result.
func (i *ExecInvoker) RunCapture(ctx context.Context, spec Spec) *Result {
	cmd := i.command(ctx, spec)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = ExitCode(exitErr.ExitCode())
		} else {
			result.ExitCode = 1
			result.Error = fmt.Errorf("failed to execute %s: %w", spec.Path, err)
		}
	}

	return result
}

// command builds the exec.Cmd for a spec.
func (i *ExecInvoker) command(ctx context.Context, spec Spec) *exec.Cmd {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Env = append(os.Environ(), EnvToSlice(spec.Env)...)
	return cmd
}
