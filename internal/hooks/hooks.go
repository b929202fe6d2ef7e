// SPDX-License-Identifier: MPL-2.0

// Package hooks runs user-provided shell snippets around a benchmark session
// using an embedded POSIX shell interpreter, so hooks behave identically on
// every platform without requiring /bin/sh.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"amqbench-cli/internal/invoke"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// PreRun runs before the first harness of a session.
	PreRun Name = "pre_run"
	// PostRun runs after the last harness, even when a run failed.
	PostRun Name = "post_run"
)

// ErrHookFailed is returned when a hook script exits non-zero.
var ErrHookFailed = errors.New("hook failed")

type (
	// Name identifies a hook point.
	Name string

	// HookFailedError is returned when a hook script exits non-zero.
	// It wraps ErrHookFailed for errors.Is().
	HookFailedError struct {
		Name     Name
		ExitCode int
	}

	// Runner executes hook scripts in the embedded interpreter.
	Runner struct {
		// Dir is the working directory for hook execution; empty means the
		// process working directory.
		Dir string
		// Env holds extra environment variables exposed to hooks, merged
		// over the process environment.
		Env map[string]string
		// Stdout and Stderr receive hook output; nil writers discard it.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Error implements the error interface for HookFailedError.
func (e *HookFailedError) Error() string {
	return fmt.Sprintf("%s hook exited with code %d", e.Name, e.ExitCode)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *HookFailedError) Unwrap() error { return ErrHookFailed }

// Validate parses the script without executing it, so configuration errors
// surface before any benchmark work starts.
func Validate(name Name, script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), string(name)); err != nil {
		return fmt.Errorf("%s hook syntax error: %w", name, err)
	}
	return nil
}

// Run executes the script for the given hook point. Empty scripts are a
// no-op. A non-zero exit becomes a HookFailedError; other interpreter
// failures are returned as-is.
func (r *Runner) Run(ctx context.Context, name Name, script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), string(name))
	if err != nil {
		return fmt.Errorf("%s hook syntax error: %w", name, err)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	env := append(os.Environ(), invoke.EnvToSlice(r.Env)...)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &HookFailedError{Name: name, ExitCode: int(exitStatus)}
		}
		return fmt.Errorf("%s hook execution failed: %w", name, err)
	}

	return nil
}
