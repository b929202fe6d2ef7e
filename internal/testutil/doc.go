// SPDX-License-Identifier: MPL-2.0

// Package testutil provides deterministic fakes for the sequencer's two
// side-effecting dependencies: time (Clock) and subprocess execution
// (FakeInvoker). Production code uses RealClock and invoke.ExecInvoker.
package testutil
