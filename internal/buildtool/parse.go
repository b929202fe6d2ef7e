// SPDX-License-Identifier: MPL-2.0

// Package buildtool drives the external build tool (cargo) that compiles the
// benchmark targets, and parses its diagnostic output to locate the compiled
// executables.
package buildtool

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// ErrExecutableNotFound is the sentinel error wrapped by ExecutableNotFoundError.
var ErrExecutableNotFound = errors.New("executable not found in build output")

// ExecutableNotFoundError is returned when the build tool's diagnostic output
// contains no line announcing the compiled executable for a target.
type ExecutableNotFoundError struct {
	Target string
}

// Error implements the error interface.
func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("no executable path for target %q in build output", e.Target)
}

// Unwrap returns ErrExecutableNotFound for errors.Is() compatibility.
func (e *ExecutableNotFoundError) Unwrap() error { return ErrExecutableNotFound }

// ExtractExecutable scans build-tool diagnostic output for the line announcing
// the compiled benchmark executable and returns the parenthesized path.
//
// Cargo prints lines such as
//
//	Executable unittests src/bin/basic_pub_bencher.rs (target/release/deps/basic_pub_bencher-1a2b3c)
//
// The match keys on a line containing the word "Executable" and the target
// name; the path is the trailing parenthesized field. When no line matches,
// the returned path is empty and the error wraps ErrExecutableNotFound, so
// callers fail before attempting to run anything.
func ExtractExecutable(output, target string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Executable") || !strings.Contains(line, target) {
			continue
		}
		if path, ok := parenthesizedPath(line); ok {
			return path, nil
		}
	}
	return "", &ExecutableNotFoundError{Target: target}
}

// parenthesizedPath extracts the content of the last balanced parenthesized
// field of a line. Returns false when the line has no such field or it is empty.
func parenthesizedPath(line string) (string, bool) {
	end := strings.LastIndexByte(line, ')')
	if end < 0 {
		return "", false
	}
	start := strings.LastIndexByte(line[:end], '(')
	if start < 0 {
		return "", false
	}
	path := strings.TrimSpace(line[start+1 : end])
	if path == "" {
		return "", false
	}
	return path, true
}
