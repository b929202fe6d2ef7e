// SPDX-License-Identifier: MPL-2.0

package sequence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"amqbench-cli/internal/buildtool"
	"amqbench-cli/internal/harness"
	"amqbench-cli/internal/invoke"
	"amqbench-cli/internal/testutil"

	"github.com/charmbracelet/log"
)

// ErrBenchFailed is the sentinel error wrapped by BenchFailedError.
var ErrBenchFailed = errors.New("benchmark run failed")

type (
	// BenchFailedError is returned when a benchmark invocation exits non-zero.
	// The exit code is preserved so the CLI can propagate it as its own.
	BenchFailedError struct {
		Variant  harness.Variant
		ExitCode invoke.ExitCode
	}

	// StepResult records the outcome of one executed step.
	StepResult struct {
		// Step is the plan step that ran.
		Step Step
		// Command is the rendered command line (build, resolve, bench steps).
		Command string
		// ExitCode is the subprocess exit code (bench steps).
		ExitCode invoke.ExitCode
		// Duration is how long the step took (fake-clock time in tests).
		Duration time.Duration
	}

	// Outcome summarizes one completed (or aborted) plan execution.
	Outcome struct {
		// Harness is the harness that ran.
		Harness harness.Name
		// Executable is the resolved benchmark executable path.
		Executable string
		// Steps holds per-step results in execution order.
		Steps []StepResult
	}

	// Runner executes plans strictly sequentially against its dependencies.
	// All of them are injectable so tests can use a fake clock and a fake
	// process runner.
	Runner struct {
		// Cargo drives build and resolve steps.
		Cargo *buildtool.Cargo
		// Invoker runs the benchmark executable.
		Invoker invoke.Invoker
		// Clock provides cooldown waits.
		Clock testutil.Clock
		// Stdout and Stderr receive subprocess output.
		Stdout io.Writer
		Stderr io.Writer
		// Log receives progress messages.
		Log *log.Logger
	}
)

// Error implements the error interface.
func (e *BenchFailedError) Error() string {
	return fmt.Sprintf("benchmark run for variant %q exited with code %s", e.Variant, e.ExitCode)
}

// Unwrap returns ErrBenchFailed for errors.Is() compatibility.
func (e *BenchFailedError) Unwrap() error { return ErrBenchFailed }

// Run walks the plan in order. The first failing step aborts the remainder;
// the partial Outcome is returned alongside the error. The benchmark
// executable is resolved once per plan and reused by every bench step.
func (r *Runner) Run(ctx context.Context, plan Plan) (*Outcome, error) {
	outcome := &Outcome{Harness: plan.Harness.Name}

	for _, step := range plan.Steps {
		start := r.Clock.Now()
		before := len(outcome.Steps)

		var err error
		switch step.Kind {
		case StepBuild:
			err = r.runBuild(ctx, step, outcome)
		case StepResolve:
			err = r.runResolve(ctx, step, outcome)
		case StepCooldown:
			err = r.runCooldown(ctx, step, outcome)
		case StepBench:
			err = r.runBench(ctx, step, outcome)
		default:
			err = fmt.Errorf("unknown step kind %q", step.Kind)
		}

		if len(outcome.Steps) > before {
			outcome.Steps[len(outcome.Steps)-1].Duration = r.Clock.Since(start)
		}
		if err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

func (r *Runner) runBuild(ctx context.Context, step Step, outcome *Outcome) error {
	r.logf("building benchmark target", "target", step.Target)
	outcome.Steps = append(outcome.Steps, StepResult{
		Step:    step,
		Command: fmt.Sprintf("%s bench --bench %s --no-run", r.Cargo.Bin, step.Target),
	})
	return r.Cargo.BuildBench(ctx, step.Target, r.Stdout, r.Stderr)
}

func (r *Runner) runResolve(ctx context.Context, step Step, outcome *Outcome) error {
	outcome.Steps = append(outcome.Steps, StepResult{
		Step:    step,
		Command: fmt.Sprintf("%s bench --bench %s --no-run", r.Cargo.Bin, step.Target),
	})
	path, err := r.Cargo.LocateBench(ctx, step.Target)
	if err != nil {
		return err
	}
	outcome.Executable = path
	r.logf("resolved benchmark executable", "path", path)
	return nil
}

func (r *Runner) runCooldown(ctx context.Context, step Step, outcome *Outcome) error {
	r.logf("cooling down", "wait", step.Wait)
	outcome.Steps = append(outcome.Steps, StepResult{Step: step})
	select {
	case <-r.Clock.After(step.Wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) runBench(ctx context.Context, step Step, outcome *Outcome) error {
	if outcome.Executable == "" {
		return fmt.Errorf("no resolved executable for variant %q", step.Variant)
	}

	spec := invoke.Spec{Path: outcome.Executable, Args: step.Args}
	r.logf("running benchmark", "variant", step.Variant, "cmd", spec.CommandLine())

	result := r.Invoker.Run(ctx, spec, r.Stdout, r.Stderr)
	outcome.Steps = append(outcome.Steps, StepResult{
		Step:     step,
		Command:  spec.CommandLine(),
		ExitCode: result.ExitCode,
	})

	if result.Error != nil {
		return fmt.Errorf("run benchmark for variant %q: %w", step.Variant, result.Error)
	}
	if !result.ExitCode.IsSuccess() {
		return &BenchFailedError{Variant: step.Variant, ExitCode: result.ExitCode}
	}
	return nil
}

func (r *Runner) logf(msg string, keyvals ...any) {
	if r.Log != nil {
		r.Log.Info(msg, keyvals...)
	}
}
