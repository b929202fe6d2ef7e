// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// PlottingGnuplot renders criterion plots with gnuplot.
	PlottingGnuplot PlottingBackend = "gnuplot"
	// PlottingPlotters renders criterion plots with the pure-Rust plotters backend.
	PlottingPlotters PlottingBackend = "plotters"
	// PlottingDisabled disables plot generation.
	PlottingDisabled PlottingBackend = "disabled"
)

var (
	// ErrInvalidPlottingBackend is returned when a PlottingBackend value is not recognized.
	ErrInvalidPlottingBackend = errors.New("invalid plotting backend")
	// ErrInvalidCooldown is returned when a Cooldown value cannot be parsed.
	ErrInvalidCooldown = errors.New("invalid cooldown")
)

type (
	// PlottingBackend specifies the plot backend forwarded to the harness.
	PlottingBackend string

	// InvalidPlottingBackendError is returned when a PlottingBackend value is
	// not recognized. It wraps ErrInvalidPlottingBackend for errors.Is().
	InvalidPlottingBackendError struct {
		Value PlottingBackend
	}

	// Cooldown is the pause before each benchmark invocation, expressed as a
	// Go duration string ("3s", "500ms"). The zero value means the default.
	Cooldown string

	// InvalidCooldownError is returned when a Cooldown value cannot be parsed
	// as a duration or is negative. It wraps ErrInvalidCooldown for errors.Is().
	InvalidCooldownError struct {
		Value Cooldown
		Cause error
	}

	// BuildToolConfig configures how benchmark targets are compiled.
	BuildToolConfig struct {
		// Bin is the build tool binary; empty means "cargo" from PATH.
		Bin string `json:"bin" mapstructure:"bin"`
		// ManifestDir is the benchmark crate directory; empty means the
		// current working directory.
		ManifestDir string `json:"manifest_dir" mapstructure:"manifest_dir"`
	}

	// RunConfig configures the benchmark sequencing.
	RunConfig struct {
		// Cooldown is the pause before each benchmark invocation.
		Cooldown Cooldown `json:"cooldown" mapstructure:"cooldown"`
		// PlottingBackend is forwarded to the harness executable.
		PlottingBackend PlottingBackend `json:"plotting_backend" mapstructure:"plotting_backend"`
		// Variants are run strictly in order, one invocation each.
		Variants []string `json:"variants" mapstructure:"variants"`
	}

	// HarnessConfig overrides a built-in harness definition.
	HarnessConfig struct {
		// Target overrides the benchmark target when non-empty.
		Target string `json:"target" mapstructure:"target"`
		// Flags replaces the default flag set verbatim when non-empty.
		Flags []string `json:"flags" mapstructure:"flags"`
	}

	// HooksConfig holds shell snippets run around a benchmark session.
	HooksConfig struct {
		// PreRun executes before the first harness.
		PreRun string `json:"pre_run" mapstructure:"pre_run"`
		// PostRun executes after the last harness, even when a run failed.
		PostRun string `json:"post_run" mapstructure:"post_run"`
	}

	// BrokerConfig configures RabbitMQ provisioning.
	BrokerConfig struct {
		// Provision starts a broker container for every run.
		Provision bool `json:"provision" mapstructure:"provision"`
		// Image is the RabbitMQ container image.
		Image string `json:"image" mapstructure:"image"`
	}

	// ReportConfig configures the TOML run summary.
	ReportConfig struct {
		// Path is the summary file; empty disables the report.
		Path string `json:"path" mapstructure:"path"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// BuildTool configures benchmark compilation.
		BuildTool BuildToolConfig `json:"build_tool" mapstructure:"build_tool"`
		// Run configures sequencing.
		Run RunConfig `json:"run" mapstructure:"run"`
		// Harnesses overrides built-in harness definitions by name.
		Harnesses map[string]HarnessConfig `json:"harnesses" mapstructure:"harnesses"`
		// Hooks holds pre/post run shell snippets.
		Hooks HooksConfig `json:"hooks" mapstructure:"hooks"`
		// Broker configures RabbitMQ provisioning.
		Broker BrokerConfig `json:"broker" mapstructure:"broker"`
		// Report configures the run summary.
		Report ReportConfig `json:"report" mapstructure:"report"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// Error implements the error interface for InvalidPlottingBackendError.
func (e *InvalidPlottingBackendError) Error() string {
	return fmt.Sprintf("invalid plotting backend %q (valid: gnuplot, plotters, disabled)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPlottingBackendError) Unwrap() error {
	return ErrInvalidPlottingBackend
}

// String returns the string representation of the PlottingBackend.
func (b PlottingBackend) String() string { return string(b) }

// IsValid returns whether the PlottingBackend is one of the defined backends,
// and a list of validation errors if it is not.
func (b PlottingBackend) IsValid() (bool, []error) {
	switch b {
	case PlottingGnuplot, PlottingPlotters, PlottingDisabled:
		return true, nil
	default:
		return false, []error{&InvalidPlottingBackendError{Value: b}}
	}
}

// Error implements the error interface for InvalidCooldownError.
func (e *InvalidCooldownError) Error() string {
	return fmt.Sprintf("invalid cooldown %q: %v", e.Value, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidCooldownError) Unwrap() error { return ErrInvalidCooldown }

// String returns the string representation of the Cooldown.
func (c Cooldown) String() string { return string(c) }

// Duration parses the cooldown. The zero value yields zero, which callers
// treat as "use the default".
func (c Cooldown) Duration() (time.Duration, error) {
	if c == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(string(c))
	if err != nil {
		return 0, &InvalidCooldownError{Value: c, Cause: err}
	}
	if d < 0 {
		return 0, &InvalidCooldownError{Value: c, Cause: errors.New("must not be negative")}
	}
	return d, nil
}

// IsValid returns whether the Cooldown parses as a non-negative duration.
func (c Cooldown) IsValid() (bool, []error) {
	if _, err := c.Duration(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// IsValid returns whether the Config has valid fields. It delegates to
// Run.Cooldown and Run.PlottingBackend; the remaining fields are free-form.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Run.Cooldown.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Run.PlottingBackend != "" {
		if valid, fieldErrs := c.Run.PlottingBackend.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BuildTool: BuildToolConfig{
			Bin:         "", // resolve "cargo" from PATH
			ManifestDir: "",
		},
		Run: RunConfig{
			Cooldown:        "3s",
			PlottingBackend: PlottingGnuplot,
			Variants:        []string{"amqprs", "lapin"},
		},
		Harnesses: map[string]HarnessConfig{},
		Broker: BrokerConfig{
			Provision: false,
			Image:     "bitnami/rabbitmq:3.12",
		},
		Report: ReportConfig{
			Path: "",
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}
