// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	BuildFailedId Id = iota + 1
	ExecutableNotFoundId
	BenchRunFailedId
	BrokerUnavailableId
	ConfigLoadFailedId
	HookFailedId
	UnknownHarnessId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Benchmark build failed!

The build tool could not compile the benchmark target, so nothing was run.

## Things you can try:
- Re-run the failing build directly to see the full compiler output:
~~~
$ cargo bench --bench basic_pub_bencher --no-run
~~~
- Check that you are in (or configured) the benchmarks crate directory
- Verify the Rust toolchain is installed and up to date`,
	}

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# Could not locate the benchmark executable!

The build succeeded but its diagnostic output contained no line announcing
the compiled executable for the requested target. Nothing was run: invoking
an empty path would only fail later with a confusing error.

## Things you can try:
- Confirm the target name matches a bench entry in Cargo.toml:
~~~
$ amqbench config show
~~~
- Run the build manually and look for the "Executable ... (path)" line:
~~~
$ cargo bench --bench basic_pub --no-run
~~~
- Newer cargo releases occasionally reformat diagnostics; run with
  --verbose and file a bug with the captured output`,
	}

	benchRunFailedIssue = &Issue{
		id: BenchRunFailedId,
		mdMsg: `
# Benchmark run failed!

The benchmark executable exited with a non-zero code. The most common cause
is that no AMQP broker is reachable on localhost:5672.

## Things you can try:
- Start a local broker before the run, or let amqbench provision one:
~~~
$ amqbench run --with-broker
~~~
- Check broker credentials (the benchmarks dial user/bitnami)
- Re-run with --verbose to see the executable's own output`,
	}

	brokerUnavailableIssue = &Issue{
		id: BrokerUnavailableId,
		mdMsg: `
# Could not provision the RabbitMQ broker!

--with-broker needs a working container engine to start RabbitMQ.

## Things you can try:
- Check that Docker (or a Docker-compatible engine) is running:
~~~
$ docker info
~~~
- Make sure port 5672 is free: the benchmark executables dial
  localhost:5672 and cannot be pointed elsewhere
- Start a broker yourself and run without --with-broker`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file contains syntax errors or invalid values.

## Things you can try:
- Check the error message above for the specific field
- Regenerate a default config:
~~~
$ amqbench config init
~~~
- Run with verbose mode for more details:
~~~
$ amqbench --verbose config show
~~~`,
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# A run hook failed!

A pre_run or post_run hook script exited non-zero, so the session stopped.

## Things you can try:
- Check the hook script in your config file for errors
- Hooks run in the embedded shell interpreter; exotic shell features may
  not be available
- Remove the hook to confirm the benchmarks themselves are fine`,
	}

	unknownHarnessIssue = &Issue{
		id: UnknownHarnessId,
		mdMsg: `
# Unknown harness!

The harness you specified is not one of the built-in harnesses.

## Available harnesses:
- ` + "`bencher`" + ` — the bencher-style harness (basic_pub_bencher target)
- ` + "`criterion`" + ` — the criterion-style harness (basic_pub target)

## Example:
~~~
$ amqbench run criterion
~~~`,
	}

	registry = map[Id]*Issue{
		BuildFailedId:        buildFailedIssue,
		ExecutableNotFoundId: executableNotFoundIssue,
		BenchRunFailedId:     benchRunFailedIssue,
		BrokerUnavailableId:  brokerUnavailableIssue,
		ConfigLoadFailedId:   configLoadFailedIssue,
		HookFailedId:         hookFailedIssue,
		UnknownHarnessId:     unknownHarnessIssue,
	}
)

// Get returns the registered issue for an id. Unknown ids return nil.
func Get(id Id) *Issue {
	return registry[id]
}

// Ids returns all registered issue ids in ascending order.
func Ids() []Id {
	ids := maps.Keys(registry)
	slices.Sort(ids)
	return ids
}
