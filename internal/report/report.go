// SPDX-License-Identifier: MPL-2.0

// Package report writes a TOML summary of benchmark sessions, so results
// can be compared across runs without scraping console output.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"amqbench-cli/internal/sequence"

	"github.com/pelletier/go-toml/v2"
)

type (
	// Run summarizes one benchmark invocation.
	Run struct {
		// Variant is the client library the invocation exercised.
		Variant string `toml:"variant"`
		// Command is the rendered command line.
		Command string `toml:"command"`
		// ExitCode is the invocation's exit code.
		ExitCode int `toml:"exit_code"`
		// DurationMillis is how long the invocation took.
		DurationMillis int64 `toml:"duration_millis"`
	}

	// Session summarizes one harness's plan execution.
	Session struct {
		// Harness is the harness that ran.
		Harness string `toml:"harness"`
		// Executable is the resolved benchmark executable path.
		Executable string `toml:"executable"`
		// Runs holds one entry per benchmark invocation, in execution order.
		Runs []Run `toml:"runs"`
	}

	// Report is the persisted summary of a full amqbench run.
	Report struct {
		// GeneratedAt is when the report was written.
		GeneratedAt time.Time `toml:"generated_at"`
		// Sessions holds one entry per harness, in execution order.
		Sessions []Session `toml:"sessions"`
	}
)

// FromOutcomes builds a report from completed (or aborted) sessions. Only
// benchmark invocations appear as runs; build, resolve, and cooldown steps
// are bookkeeping.
func FromOutcomes(outcomes []*sequence.Outcome, generatedAt time.Time) *Report {
	r := &Report{GeneratedAt: generatedAt}
	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		s := Session{
			Harness:    string(outcome.Harness),
			Executable: outcome.Executable,
		}
		for _, step := range outcome.Steps {
			if step.Step.Kind != sequence.StepBench {
				continue
			}
			s.Runs = append(s.Runs, Run{
				Variant:        string(step.Step.Variant),
				Command:        step.Command,
				ExitCode:       int(step.ExitCode),
				DurationMillis: step.Duration.Milliseconds(),
			})
		}
		r.Sessions = append(r.Sessions, s)
	}
	return r
}

// Write persists the report to path, creating parent directories as needed.
func Write(path string, r *Report) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report TOML: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}

// Read loads a previously written report.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	var r Report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report TOML: %w", err)
	}
	return &r, nil
}
