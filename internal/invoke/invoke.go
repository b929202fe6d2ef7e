// SPDX-License-Identifier: MPL-2.0

// Package invoke abstracts subprocess execution behind a narrow interface so
// the benchmark sequencer can be tested against a fake process runner.
package invoke

import (
	"context"
	"io"
	"strings"
)

type (
	// Spec describes a single subprocess invocation.
	Spec struct {
		// Path is the executable to run.
		Path string
		// Args are the arguments passed to the executable (not including Path).
		Args []string
		// Dir is the working directory; empty means inherit the caller's.
		Dir string
		// Env contains extra environment variables appended to the host environment.
		Env map[string]string
	}

	// Result contains the outcome of an invocation.
	Result struct {
		// ExitCode is the exit code of the subprocess.
		ExitCode ExitCode
		// Error contains any infrastructure error (spawn failure, not a non-zero exit).
		Error error
		// Output contains captured stdout (only when capturing).
		Output string
		// ErrOutput contains captured stderr (only when capturing).
		ErrOutput string
	}

	// Invoker runs subprocesses. Production code uses ExecInvoker; tests use
	// the fake in internal/testutil.
	Invoker interface {
		// Run executes the spec, streaming output to the given writers,
		// and blocks until the subprocess exits.
		Run(ctx context.Context, spec Spec, stdout, stderr io.Writer) *Result

		// RunCapture executes the spec and captures stdout/stderr in the Result.
		RunCapture(ctx context.Context, spec Spec) *Result
	}
)

// CommandLine renders the invocation as a single shell-style line for
// logging and dry-run display.
func (s Spec) CommandLine() string {
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, s.Path)
	parts = append(parts, s.Args...)
	return strings.Join(parts, " ")
}

// Success returns true if the subprocess exited zero with no infrastructure error.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// EnvToSlice converts a map of environment variables to a KEY=VALUE slice.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}
