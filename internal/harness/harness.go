// SPDX-License-Identifier: MPL-2.0

// Package harness defines the built-in benchmark harnesses and the client
// library variants they are run against.
package harness

import (
	"errors"
	"fmt"
)

const (
	// Bencher is the bencher-style harness (the basic_pub_bencher target).
	Bencher Name = "bencher"
	// Criterion is the criterion-style harness (the basic_pub target).
	Criterion Name = "criterion"

	// VariantAmqprs selects the amqprs client library implementation.
	VariantAmqprs Variant = "amqprs"
	// VariantLapin selects the lapin client library implementation.
	VariantLapin Variant = "lapin"

	// DefaultPlottingBackend is the plot backend forwarded to the harness.
	DefaultPlottingBackend = "gnuplot"
)

var (
	// ErrUnknownHarness is the sentinel error wrapped by UnknownHarnessError.
	ErrUnknownHarness = errors.New("unknown harness")

	// builtins holds the built-in harness definitions, bencher first: the
	// original tooling shipped one run script per harness and the bencher
	// one predates the criterion one.
	builtins = []Harness{
		{Name: Bencher, Target: "basic_pub_bencher"},
		{Name: Criterion, Target: "basic_pub"},
	}
)

type (
	// Name identifies a benchmark harness.
	Name string

	// Variant selects which underlying messaging client library a benchmark
	// run exercises. The two variants must never run in the same process:
	// the client libraries conflict when their runtimes coexist, so runs are
	// always separate sequential invocations of the benchmark executable.
	Variant string

	// Harness describes one benchmark harness: a named compiled target plus
	// the flag set forwarded to every invocation of its executable.
	Harness struct {
		// Name is the harness identifier (bencher, criterion).
		Name Name
		// Target is the benchmark target compiled by the build tool.
		Target string
		// Flags overrides the default flag set when non-empty.
		Flags []string
	}

	// UnknownHarnessError is returned when a harness name is not recognized.
	UnknownHarnessError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *UnknownHarnessError) Error() string {
	return fmt.Sprintf("unknown harness %q (valid: bencher, criterion)", e.Value)
}

// Unwrap returns ErrUnknownHarness for errors.Is() compatibility.
func (e *UnknownHarnessError) Unwrap() error { return ErrUnknownHarness }

// String returns the string representation of the Name.
func (n Name) String() string { return string(n) }

// String returns the string representation of the Variant.
func (v Variant) String() string { return string(v) }

// All returns the built-in harnesses in run order (bencher first).
func All() []Harness {
	out := make([]Harness, len(builtins))
	copy(out, builtins)
	return out
}

// Lookup returns the built-in harness with the given name.
func Lookup(name string) (Harness, error) {
	for _, h := range builtins {
		if string(h.Name) == name {
			return h, nil
		}
	}
	return Harness{}, &UnknownHarnessError{Value: name}
}

// DefaultVariants returns the variant run order: amqprs then lapin.
func DefaultVariants() []Variant {
	return []Variant{VariantAmqprs, VariantLapin}
}

// ParseVariants converts raw variant names preserving order. Empty input
// yields the default order.
func ParseVariants(raw []string) []Variant {
	if len(raw) == 0 {
		return DefaultVariants()
	}
	out := make([]Variant, len(raw))
	for i, r := range raw {
		out[i] = Variant(r)
	}
	return out
}

// Args returns the full argument list for invoking the harness executable
// against a variant: the flag set followed by the variant argument. A custom
// Flags override replaces the default set verbatim; otherwise the default is
// `--bench --verbose --plotting-backend <backend>`.
func (h Harness) Args(plottingBackend string, v Variant) []string {
	flags := h.Flags
	if len(flags) == 0 {
		if plottingBackend == "" {
			plottingBackend = DefaultPlottingBackend
		}
		flags = []string{"--bench", "--verbose", "--plotting-backend", plottingBackend}
	}
	args := make([]string, 0, len(flags)+1)
	args = append(args, flags...)
	args = append(args, string(v))
	return args
}
