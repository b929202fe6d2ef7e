// SPDX-License-Identifier: MPL-2.0

// Package sequence models a benchmark session as an explicit ordered list of
// steps and executes it strictly sequentially. The two client library
// variants must never run concurrently: their runtimes conflict when they
// coexist in one process, so each variant gets its own invocation of the
// benchmark executable with a cooldown before it.
package sequence

import (
	"fmt"
	"strings"
	"time"

	"amqbench-cli/internal/harness"
)

// DefaultCooldown is the pause before each benchmark invocation, letting
// system load settle so back-to-back runs do not skew each other.
const DefaultCooldown = 3 * time.Second

const (
	// StepBuild compiles the benchmark target without running it.
	StepBuild StepKind = "build"
	// StepResolve locates the compiled executable from build diagnostics.
	StepResolve StepKind = "resolve"
	// StepCooldown waits for the cooldown duration.
	StepCooldown StepKind = "cooldown"
	// StepBench invokes the resolved executable against one variant.
	StepBench StepKind = "bench"
)

type (
	// StepKind identifies the type of a plan step.
	StepKind string

	// Step is one entry in a benchmark plan. Only the fields relevant to the
	// step's kind are set.
	Step struct {
		// Kind is the step type.
		Kind StepKind
		// Target is the benchmark target (build and resolve steps).
		Target string
		// Wait is the cooldown duration (cooldown steps).
		Wait time.Duration
		// Variant is the client library under test (bench steps).
		Variant harness.Variant
		// Args is the full argument list for the executable (bench steps).
		Args []string
	}

	// Plan is the ordered step list for one harness session.
	Plan struct {
		// Harness is the harness this plan runs.
		Harness harness.Harness
		// Steps are executed strictly in order; any failure aborts the rest.
		Steps []Step
	}

	// PlanOptions tune plan construction.
	PlanOptions struct {
		// Cooldown overrides DefaultCooldown when positive.
		Cooldown time.Duration
		// PlottingBackend overrides the default plot backend when non-empty.
		PlottingBackend string
		// Variants overrides the default variant order when non-empty.
		Variants []harness.Variant
	}
)

// NewPlan builds the plan for a harness: build, resolve, then for each
// variant a cooldown followed by the benchmark invocation.
func NewPlan(h harness.Harness, opts PlanOptions) Plan {
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	variants := opts.Variants
	if len(variants) == 0 {
		variants = harness.DefaultVariants()
	}

	steps := []Step{
		{Kind: StepBuild, Target: h.Target},
		{Kind: StepResolve, Target: h.Target},
	}
	for _, v := range variants {
		steps = append(steps,
			Step{Kind: StepCooldown, Wait: cooldown},
			Step{Kind: StepBench, Variant: v, Args: h.Args(opts.PlottingBackend, v)},
		)
	}

	return Plan{Harness: h, Steps: steps}
}

// Describe renders the plan as one line per step for dry-run display.
func (p Plan) Describe() []string {
	lines := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		switch s.Kind {
		case StepBuild:
			lines = append(lines, fmt.Sprintf("build %s (no run)", s.Target))
		case StepResolve:
			lines = append(lines, fmt.Sprintf("resolve executable for %s", s.Target))
		case StepCooldown:
			lines = append(lines, fmt.Sprintf("cooldown %s", s.Wait))
		case StepBench:
			lines = append(lines, fmt.Sprintf("bench %s: <executable> %s", s.Variant, strings.Join(s.Args, " ")))
		}
	}
	return lines
}
