// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the amqbench configuration.
//
// Configuration lives in a CUE file validated against an embedded #Config
// schema, merged into Viper over built-in defaults. Lookup order is the
// --config flag, then <config-dir>/config.cue, then ./config.cue, then
// defaults.
package config
