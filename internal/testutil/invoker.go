// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"io"
	"sync"

	"amqbench-cli/internal/invoke"
)

// FakeInvoker is an invoke.Invoker that records every Spec it receives and
// answers from a scripted queue of results. When the queue is exhausted it
// falls back to Default (success when nil).
type FakeInvoker struct {
	mu      sync.Mutex
	calls   []invoke.Spec
	queue   []*invoke.Result
	Default *invoke.Result
}

// NewFakeInvoker creates a FakeInvoker with the given scripted results,
// consumed in order across Run and RunCapture calls.
func NewFakeInvoker(results ...*invoke.Result) *FakeInvoker {
	return &FakeInvoker{queue: results}
}

// Run records the spec, writes any scripted output to the writers, and
// returns the next scripted result.
func (f *FakeInvoker) Run(_ context.Context, spec invoke.Spec, stdout, stderr io.Writer) *invoke.Result {
	result := f.record(spec)
	if result.Output != "" && stdout != nil {
		io.WriteString(stdout, result.Output)
	}
	if result.ErrOutput != "" && stderr != nil {
		io.WriteString(stderr, result.ErrOutput)
	}
	return result
}

// RunCapture records the spec and returns the next scripted result.
func (f *FakeInvoker) RunCapture(_ context.Context, spec invoke.Spec) *invoke.Result {
	return f.record(spec)
}

// Calls returns a copy of the recorded invocation specs, in call order.
func (f *FakeInvoker) Calls() []invoke.Spec {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]invoke.Spec, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandLines returns the recorded invocations rendered as command lines.
func (f *FakeInvoker) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.CommandLine()
	}
	return lines
}

func (f *FakeInvoker) record(spec invoke.Spec) *invoke.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, spec)

	if len(f.queue) > 0 {
		result := f.queue[0]
		f.queue = f.queue[1:]
		return result
	}
	if f.Default != nil {
		return f.Default
	}
	return invoke.NewSuccessResult()
}
