// SPDX-License-Identifier: MPL-2.0

package buildtool

import (
	"context"
	"errors"
	"fmt"
	"io"

	"amqbench-cli/internal/invoke"
)

// DefaultBin is the build tool binary used when none is configured.
const DefaultBin = "cargo"

// ErrBuildFailed is the sentinel error wrapped by BuildFailedError.
var ErrBuildFailed = errors.New("benchmark build failed")

// BuildFailedError is returned when cargo exits non-zero while compiling a
// benchmark target.
type BuildFailedError struct {
	Target   string
	ExitCode invoke.ExitCode
}

// Error implements the error interface.
func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("build benchmark target %q: cargo exited with code %s", e.Target, e.ExitCode)
}

// Unwrap returns ErrBuildFailed for errors.Is() compatibility.
func (e *BuildFailedError) Unwrap() error { return ErrBuildFailed }

// Cargo invokes the cargo build tool through an Invoker.
type Cargo struct {
	// Bin is the cargo binary; empty means DefaultBin resolved from PATH.
	Bin string
	// ManifestDir is the directory containing the benchmark crate's Cargo.toml;
	// empty means the current working directory.
	ManifestDir string

	invoker invoke.Invoker
}

// NewCargo creates a Cargo driver backed by the given invoker.
func NewCargo(bin, manifestDir string, invoker invoke.Invoker) *Cargo {
	if bin == "" {
		bin = DefaultBin
	}
	return &Cargo{Bin: bin, ManifestDir: manifestDir, invoker: invoker}
}

// BuildBench compiles a named benchmark target without running it, streaming
// the build tool's output to the given writers. A non-zero cargo exit is an
// error: the caller must not continue to path resolution against a failed build.
func (c *Cargo) BuildBench(ctx context.Context, target string, stdout, stderr io.Writer) error {
	result := c.invoker.Run(ctx, c.benchSpec(target), stdout, stderr)
	if result.Error != nil {
		return fmt.Errorf("build benchmark target %q: %w", target, result.Error)
	}
	if !result.ExitCode.IsSuccess() {
		return &BuildFailedError{Target: target, ExitCode: result.ExitCode}
	}
	return nil
}

// LocateBench re-invokes the build for a target capturing diagnostics and
// extracts the compiled executable path. The second invocation is a no-op
// rebuild; cargo reprints the "Executable" line on every run.
func (c *Cargo) LocateBench(ctx context.Context, target string) (string, error) {
	result := c.invoker.RunCapture(ctx, c.benchSpec(target))
	if result.Error != nil {
		return "", fmt.Errorf("locate benchmark target %q: %w", target, result.Error)
	}
	if !result.ExitCode.IsSuccess() {
		return "", &BuildFailedError{Target: target, ExitCode: result.ExitCode}
	}

	// Cargo announces executables on stderr; scan both streams to stay
	// robust against redirection in wrapper tooling.
	path, err := ExtractExecutable(result.ErrOutput+"\n"+result.Output, target)
	if err != nil {
		return "", err
	}
	return path, nil
}

// benchSpec builds the invocation spec for `cargo bench --bench <target> --no-run`.
func (c *Cargo) benchSpec(target string) invoke.Spec {
	return invoke.Spec{
		Path: c.Bin,
		Args: []string{"bench", "--bench", target, "--no-run"},
		Dir:  c.ManifestDir,
	}
}
