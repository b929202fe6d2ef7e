// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error reporting: an
// ActionableError type carrying operation/resource context and fix
// suggestions, and a registry of known failure conditions rendered as
// markdown for terminal display.
package issue
