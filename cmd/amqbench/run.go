// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"amqbench-cli/internal/broker"
	"amqbench-cli/internal/buildtool"
	"amqbench-cli/internal/config"
	"amqbench-cli/internal/harness"
	"amqbench-cli/internal/hooks"
	"amqbench-cli/internal/invoke"
	"amqbench-cli/internal/issue"
	"amqbench-cli/internal/report"
	"amqbench-cli/internal/sequence"
	"amqbench-cli/internal/testutil"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// brokerShutdownTimeout bounds how long run waits for the provisioned
// broker container to terminate after a session.
const brokerShutdownTimeout = 30 * time.Second

// runOptions carries the resolved flag values of the run command.
type runOptions struct {
	harnessNames    []string
	cooldown        time.Duration
	cooldownSet     bool
	plottingBackend string
	variants        []string
	manifestDir     string
	reportPath      string
	withBroker      bool
	dryRun          bool
}

// newRunCommand creates the `amqbench run` command.
func newRunCommand() *cobra.Command {
	var opts runOptions

	runCmd := &cobra.Command{
		Use:   "run [harness...]",
		Short: "Build and run benchmark harnesses against each client library variant",
		Long: `Build and run benchmark harnesses against each client library variant.

For every harness, amqbench compiles the benchmark target with
'cargo bench --bench <target> --no-run', extracts the compiled executable
path from cargo's diagnostics, then invokes the executable once per variant
with a cooldown before each invocation. Variants run strictly one after
another; a build or run failure aborts the rest of the session.

Without arguments, every built-in harness runs in order (bencher, then
criterion).`,
		ValidArgs: []string{"bencher", "criterion"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.harnessNames = args
			opts.cooldownSet = cmd.Flags().Changed("cooldown")
			return runBenchmarks(cmd.Context(), opts)
		},
	}

	runCmd.Flags().DurationVar(&opts.cooldown, "cooldown", sequence.DefaultCooldown, "pause before each benchmark invocation")
	runCmd.Flags().StringVar(&opts.plottingBackend, "plotting-backend", "", "plot backend forwarded to the harness (gnuplot, plotters, disabled)")
	runCmd.Flags().StringArrayVar(&opts.variants, "variant", nil, "client library variant to run (repeatable, in order)")
	runCmd.Flags().StringVar(&opts.manifestDir, "manifest-dir", "", "directory containing the benchmark crate's Cargo.toml")
	runCmd.Flags().StringVar(&opts.reportPath, "report", "", "write a TOML run summary to this path")
	runCmd.Flags().BoolVar(&opts.withBroker, "with-broker", false, "provision a RabbitMQ container for the run")
	runCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the step plan without executing anything")

	return runCmd
}

// runBenchmarks resolves configuration, then executes one plan per harness
// strictly in order.
func runBenchmarks(ctx context.Context, opts runOptions) error {
	cfg, err := config.Get(ctx)
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	harnesses, err := resolveHarnesses(opts.harnessNames, cfg)
	if err != nil {
		renderIssue(issue.UnknownHarnessId)
		return err
	}

	planOpts, err := resolvePlanOptions(opts, cfg)
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, h := range harnesses {
			plan := sequence.NewPlan(h, planOpts)
			fmt.Println(TitleStyle.Render(string(h.Name)))
			for _, line := range plan.Describe() {
				fmt.Println("  " + line)
			}
		}
		return nil
	}

	// Surface hook syntax errors before any build work starts.
	if err := hooks.Validate(hooks.PreRun, cfg.Hooks.PreRun); err != nil {
		return err
	}
	if err := hooks.Validate(hooks.PostRun, cfg.Hooks.PostRun); err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "amqbench"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if opts.withBroker || cfg.Broker.Provision {
		b, err := provisionBroker(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), brokerShutdownTimeout)
			defer cancel()
			if err := b.Terminate(shutdownCtx); err != nil {
				logger.Warn("failed to terminate broker", "err", err)
			}
		}()
	}

	manifestDir := opts.manifestDir
	if manifestDir == "" {
		manifestDir = cfg.BuildTool.ManifestDir
	}

	hookRunner := &hooks.Runner{Dir: manifestDir, Stdout: os.Stdout, Stderr: os.Stderr}
	if err := hookRunner.Run(ctx, hooks.PreRun, cfg.Hooks.PreRun); err != nil {
		renderIssue(issue.HookFailedId)
		return asExitError(err)
	}

	invoker := invoke.NewExecInvoker()
	runner := &sequence.Runner{
		Cargo:   buildtool.NewCargo(cfg.BuildTool.Bin, manifestDir, invoker),
		Invoker: invoker,
		Clock:   testutil.RealClock{},
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Log:     logger,
	}

	var (
		outcomes   []*sequence.Outcome
		sessionErr error
	)
	for _, h := range harnesses {
		outcome, err := runner.Run(ctx, sequence.NewPlan(h, planOpts))
		outcomes = append(outcomes, outcome)
		if err != nil {
			// The first failure aborts the remaining harnesses too.
			sessionErr = err
			break
		}
	}

	if sessionErr != nil {
		if id, ok := issueIdForError(sessionErr); ok {
			renderIssue(id)
		}
	}

	reportPath := opts.reportPath
	if reportPath == "" {
		reportPath = cfg.Report.Path
	}
	if reportPath != "" {
		if err := report.Write(reportPath, report.FromOutcomes(outcomes, time.Now())); err != nil {
			logger.Warn("failed to write report", "path", reportPath, "err", err)
		} else {
			logger.Info("wrote report", "path", reportPath)
		}
	}

	// The post_run hook runs even when a session failed, so cleanup hooks
	// always get their chance. Its failure only surfaces when the session
	// itself succeeded.
	if err := hookRunner.Run(ctx, hooks.PostRun, cfg.Hooks.PostRun); err != nil {
		if sessionErr == nil {
			renderIssue(issue.HookFailedId)
			return asExitError(err)
		}
		logger.Warn("post_run hook failed", "err", err)
	}

	if sessionErr != nil {
		return asExitError(sessionErr)
	}

	fmt.Println(SuccessStyle.Render("✓") + " All benchmark runs completed")
	return nil
}

// resolveHarnesses maps harness name arguments to their definitions, with
// config overrides applied. No arguments means all built-in harnesses.
func resolveHarnesses(names []string, cfg *config.Config) ([]harness.Harness, error) {
	var out []harness.Harness
	if len(names) == 0 {
		out = harness.All()
	} else {
		for _, name := range names {
			h, err := harness.Lookup(name)
			if err != nil {
				return nil, err
			}
			out = append(out, h)
		}
	}

	for i, h := range out {
		if override, ok := cfg.Harnesses[string(h.Name)]; ok {
			if override.Target != "" {
				out[i].Target = override.Target
			}
			if len(override.Flags) > 0 {
				out[i].Flags = override.Flags
			}
		}
	}
	return out, nil
}

// resolvePlanOptions merges run flags over the configuration.
func resolvePlanOptions(opts runOptions, cfg *config.Config) (sequence.PlanOptions, error) {
	cooldown := opts.cooldown
	if !opts.cooldownSet {
		d, err := cfg.Run.Cooldown.Duration()
		if err != nil {
			return sequence.PlanOptions{}, err
		}
		cooldown = d
	}

	backend := opts.plottingBackend
	if backend == "" {
		backend = string(cfg.Run.PlottingBackend)
	}

	variantNames := opts.variants
	if len(variantNames) == 0 {
		variantNames = cfg.Run.Variants
	}

	return sequence.PlanOptions{
		Cooldown:        cooldown,
		PlottingBackend: backend,
		Variants:        harness.ParseVariants(variantNames),
	}, nil
}

// provisionBroker starts a RabbitMQ container for the run.
func provisionBroker(ctx context.Context, cfg *config.Config, logger *log.Logger) (*broker.Broker, error) {
	if !broker.Available() {
		renderIssue(issue.BrokerUnavailableId)
		return nil, fmt.Errorf("%w: no container provider available", broker.ErrProvisionFailed)
	}

	logger.Info("provisioning broker", "image", cfg.Broker.Image)
	b, err := broker.Start(ctx, broker.Options{Image: cfg.Broker.Image})
	if err != nil {
		renderIssue(issue.BrokerUnavailableId)
		return nil, err
	}
	logger.Info("broker ready", "url", b.URL())
	return b, nil
}

// issueIdForError maps a session error to the issue card explaining it.
func issueIdForError(err error) (issue.Id, bool) {
	switch {
	case errors.Is(err, buildtool.ErrExecutableNotFound):
		return issue.ExecutableNotFoundId, true
	case errors.Is(err, buildtool.ErrBuildFailed):
		return issue.BuildFailedId, true
	case errors.Is(err, sequence.ErrBenchFailed):
		return issue.BenchRunFailedId, true
	case errors.Is(err, hooks.ErrHookFailed):
		return issue.HookFailedId, true
	default:
		return 0, false
	}
}

// asExitError converts failures that carry a subprocess exit code into an
// ExitError so the CLI exits with that same code.
func asExitError(err error) error {
	var benchErr *sequence.BenchFailedError
	if errors.As(err, &benchErr) {
		return &ExitError{Code: benchErr.ExitCode, Err: err}
	}
	var hookErr *hooks.HookFailedError
	if errors.As(err, &hookErr) {
		return &ExitError{Code: invoke.ExitCode(hookErr.ExitCode), Err: err}
	}
	return err
}

// renderIssue prints the styled issue card for an id to stderr.
func renderIssue(id issue.Id) {
	rendered, err := issue.Get(id).Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, rendered)
}
