// SPDX-License-Identifier: MPL-2.0

// amqbench builds Rust AMQP client benchmarks and runs them once per client
// library variant, strictly sequentially.
package main

import cmd "amqbench-cli/cmd/amqbench"

func main() {
	cmd.Execute()
}
