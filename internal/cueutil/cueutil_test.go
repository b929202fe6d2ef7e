// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func TestFormatErrorNil(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "config.cue") != nil {
		t.Error("expected nil for nil error")
	}
}

func TestFormatErrorNonCUE(t *testing.T) {
	t.Parallel()

	err := FormatError(errors.New("boom"), "config.cue")
	if err == nil || !strings.Contains(err.Error(), "config.cue") {
		t.Errorf("expected file path in formatted error, got %v", err)
	}
}

func TestFormatErrorCUEValidation(t *testing.T) {
	t.Parallel()

	ctx := cuecontext.New()
	schema := ctx.CompileString(`#Config: { cooldown?: string }`)
	user := ctx.CompileString(`cooldown: 3`)

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	verr := unified.Validate()
	if verr == nil {
		t.Fatal("expected validation error for int cooldown")
	}

	err := FormatError(verr, "config.cue")
	if !strings.Contains(err.Error(), "config.cue") {
		t.Errorf("expected file path in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "cooldown") {
		t.Errorf("expected field path in error, got %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"simple", []string{"run", "cooldown"}, "run.cooldown"},
		{"index", []string{"variants", "0"}, "variants[0]"},
		{"nested index", []string{"harnesses", "1", "target"}, "harnesses[1].target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 100, "x.cue"); err != nil {
		t.Errorf("unexpected error for small file: %v", err)
	}
	if err := CheckFileSize(make([]byte, 101), 100, "x.cue"); err == nil {
		t.Error("expected error for oversized file")
	}
}
