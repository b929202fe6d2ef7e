// SPDX-License-Identifier: MPL-2.0

package sequence

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"amqbench-cli/internal/buildtool"
	"amqbench-cli/internal/harness"
	"amqbench-cli/internal/invoke"
	"amqbench-cli/internal/testutil"
)

const bencherDiag = "    Finished `bench` profile [optimized] target(s) in 0.04s\n" +
	"  Executable benches/basic_pub_bencher.rs (/tmp/exe123)\n"

// newTestRunner wires a Runner around fakes. The returned FakeClock must be
// advanced by the test while Run blocks on cooldown steps.
func newTestRunner(fake *testutil.FakeInvoker) (*Runner, *testutil.FakeClock) {
	clock := testutil.NewFakeClock(time.Time{})
	return &Runner{
		Cargo:   buildtool.NewCargo("cargo", "", fake),
		Invoker: fake,
		Clock:   clock,
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	}, clock
}

// runWithClock executes Run in a goroutine and advances the fake clock until
// completion, so cooldown steps never block the test.
func runWithClock(t *testing.T, r *Runner, clock *testutil.FakeClock, plan Plan) (*Outcome, error) {
	t.Helper()

	var (
		outcome *Outcome
		err     error
	)
	done := make(chan struct{})
	go func() {
		outcome, err = r.Run(context.Background(), plan)
		close(done)
	}()

	for {
		select {
		case <-done:
			return outcome, err
		default:
			clock.Advance(DefaultCooldown)
			runtime.Gosched()
		}
	}
}

func TestRunnerRunFullSequence(t *testing.T) {
	t.Parallel()

	h, _ := harness.Lookup("bencher")
	fake := testutil.NewFakeInvoker(
		invoke.NewSuccessResult(),              // build
		&invoke.Result{ErrOutput: bencherDiag}, // resolve
		invoke.NewSuccessResult(),              // bench amqprs
		invoke.NewSuccessResult(),              // bench lapin
	)
	runner, clock := newTestRunner(fake)

	outcome, err := runWithClock(t, runner, clock, NewPlan(h, PlanOptions{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Executable != "/tmp/exe123" {
		t.Errorf("expected resolved executable /tmp/exe123, got %q", outcome.Executable)
	}

	lines := fake.CommandLines()
	want := []string{
		"cargo bench --bench basic_pub_bencher --no-run",
		"cargo bench --bench basic_pub_bencher --no-run",
		"/tmp/exe123 --bench --verbose --plotting-backend gnuplot amqprs",
		"/tmp/exe123 --bench --verbose --plotting-backend gnuplot lapin",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d invocations, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("invocation %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	// One cooldown wait before each of the two benchmark invocations.
	waits := clock.Waits()
	if len(waits) != 2 {
		t.Fatalf("expected 2 cooldown waits, got %d", len(waits))
	}
	for i, w := range waits {
		if w != DefaultCooldown {
			t.Errorf("wait %d: expected %v, got %v", i, DefaultCooldown, w)
		}
	}
}

func TestRunnerRun_BuildFailureStopsSequence(t *testing.T) {
	t.Parallel()

	h, _ := harness.Lookup("bencher")
	fake := testutil.NewFakeInvoker(invoke.NewExitCodeResult(101))
	runner, clock := newTestRunner(fake)

	_, err := runWithClock(t, runner, clock, NewPlan(h, PlanOptions{}))
	if err == nil {
		t.Fatal("expected error for failed build")
	}
	if calls := fake.Calls(); len(calls) != 1 {
		t.Errorf("expected only the build invocation, got %v", fake.CommandLines())
	}
}

func TestRunnerRun_MissingExecutableStopsBeforeBench(t *testing.T) {
	t.Parallel()

	h, _ := harness.Lookup("criterion")
	fake := testutil.NewFakeInvoker(
		invoke.NewSuccessResult(),
		&invoke.Result{ErrOutput: "Finished bench profile\n"}, // no Executable line
	)
	runner, clock := newTestRunner(fake)

	_, err := runWithClock(t, runner, clock, NewPlan(h, PlanOptions{}))
	if !errors.Is(err, buildtool.ErrExecutableNotFound) {
		t.Fatalf("expected ErrExecutableNotFound, got %v", err)
	}
	if calls := fake.Calls(); len(calls) != 2 {
		t.Errorf("expected no benchmark invocations after resolve failure, got %v", fake.CommandLines())
	}
}

func TestRunnerRun_BenchFailurePreservesExitCode(t *testing.T) {
	t.Parallel()

	h, _ := harness.Lookup("bencher")
	fake := testutil.NewFakeInvoker(
		invoke.NewSuccessResult(),
		&invoke.Result{ErrOutput: bencherDiag},
		invoke.NewExitCodeResult(7), // amqprs run fails
	)
	runner, clock := newTestRunner(fake)

	_, err := runWithClock(t, runner, clock, NewPlan(h, PlanOptions{}))

	var benchErr *BenchFailedError
	if !errors.As(err, &benchErr) {
		t.Fatalf("expected BenchFailedError, got %v", err)
	}
	if benchErr.Variant != harness.VariantAmqprs {
		t.Errorf("expected failing variant amqprs, got %v", benchErr.Variant)
	}
	if benchErr.ExitCode != 7 {
		t.Errorf("expected exit code 7, got %v", benchErr.ExitCode)
	}
	// The lapin run must not happen after the amqprs failure.
	if calls := fake.Calls(); len(calls) != 3 {
		t.Errorf("expected 3 invocations, got %v", fake.CommandLines())
	}
}

func TestRunnerRun_EndToEndScenario(t *testing.T) {
	t.Parallel()

	// The fixture from the original tooling: mock diagnostics resolve
	// /tmp/exe123, then each variant runs after a cooldown.
	h, _ := harness.Lookup("bencher")
	fake := testutil.NewFakeInvoker(
		invoke.NewSuccessResult(),
		&invoke.Result{ErrOutput: "Compiling...\nExecutable bench \"basic_pub_bencher.rs\" (/tmp/exe123)"},
		invoke.NewSuccessResult(),
		invoke.NewSuccessResult(),
	)
	runner, clock := newTestRunner(fake)

	outcome, err := runWithClock(t, runner, clock, NewPlan(h, PlanOptions{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Executable != "/tmp/exe123" {
		t.Fatalf("expected /tmp/exe123, got %q", outcome.Executable)
	}

	lines := fake.CommandLines()
	if lines[2] != "/tmp/exe123 --bench --verbose --plotting-backend gnuplot amqprs" {
		t.Errorf("unexpected first bench invocation: %q", lines[2])
	}
	if lines[3] != "/tmp/exe123 --bench --verbose --plotting-backend gnuplot lapin" {
		t.Errorf("unexpected second bench invocation: %q", lines[3])
	}
}

func TestRunnerRun_OutcomeStepResults(t *testing.T) {
	t.Parallel()

	h, _ := harness.Lookup("bencher")
	fake := testutil.NewFakeInvoker(
		invoke.NewSuccessResult(),
		&invoke.Result{ErrOutput: bencherDiag},
		invoke.NewSuccessResult(),
		invoke.NewSuccessResult(),
	)
	runner, clock := newTestRunner(fake)

	outcome, err := runWithClock(t, runner, clock, NewPlan(h, PlanOptions{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outcome.Steps) != 6 {
		t.Fatalf("expected 6 step results, got %d", len(outcome.Steps))
	}
	bench := outcome.Steps[3]
	if bench.Step.Kind != StepBench {
		t.Fatalf("expected step 3 to be a bench step, got %v", bench.Step.Kind)
	}
	if bench.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %v", bench.ExitCode)
	}
	if bench.Command == "" {
		t.Error("expected bench step to record its command line")
	}
}
