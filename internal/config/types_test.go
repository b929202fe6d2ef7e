// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Run.Cooldown != "3s" {
		t.Errorf("expected default cooldown to be 3s, got %s", cfg.Run.Cooldown)
	}

	if cfg.Run.PlottingBackend != PlottingGnuplot {
		t.Errorf("expected default plotting backend to be gnuplot, got %s", cfg.Run.PlottingBackend)
	}

	wantVariants := []string{"amqprs", "lapin"}
	if len(cfg.Run.Variants) != len(wantVariants) {
		t.Fatalf("expected default variants %v, got %v", wantVariants, cfg.Run.Variants)
	}
	for i, v := range wantVariants {
		if cfg.Run.Variants[i] != v {
			t.Errorf("variants[%d] = %s, want %s", i, cfg.Run.Variants[i], v)
		}
	}

	if cfg.BuildTool.Bin != "" {
		t.Errorf("expected default build tool bin to be empty, got %q", cfg.BuildTool.Bin)
	}

	if cfg.Broker.Provision {
		t.Error("expected broker provisioning to be disabled by default")
	}

	if cfg.Broker.Image != "bitnami/rabbitmq:3.12" {
		t.Errorf("unexpected default broker image %q", cfg.Broker.Image)
	}

	if cfg.Report.Path != "" {
		t.Errorf("expected default report path to be empty, got %q", cfg.Report.Path)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
}

func TestCooldownDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   Cooldown
		want    time.Duration
		wantErr bool
	}{
		{"default seconds", "3s", 3 * time.Second, false},
		{"milliseconds", "500ms", 500 * time.Millisecond, false},
		{"zero value means default", "", 0, false},
		{"explicit zero", "0s", 0, false},
		{"negative", "-1s", 0, true},
		{"garbage", "soon", 0, true},
		{"bare number", "3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.value.Duration()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Duration(%q) expected error", tt.value)
				}
				if !errors.Is(err, ErrInvalidCooldown) {
					t.Errorf("expected ErrInvalidCooldown, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Duration(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Duration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestPlottingBackendIsValid(t *testing.T) {
	t.Parallel()

	for _, backend := range []PlottingBackend{PlottingGnuplot, PlottingPlotters, PlottingDisabled} {
		if valid, errs := backend.IsValid(); !valid {
			t.Errorf("expected %s to be valid, got %v", backend, errs)
		}
	}

	valid, errs := PlottingBackend("ascii").IsValid()
	if valid {
		t.Fatal("expected ascii to be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidPlottingBackend) {
		t.Errorf("expected ErrInvalidPlottingBackend, got %v", errs)
	}
}

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("expected default config to be valid, got %v", errs)
	}

	cfg.Run.Cooldown = "soon"
	cfg.Run.PlottingBackend = "ascii"
	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	if len(errs) != 2 {
		t.Errorf("expected two validation errors, got %v", errs)
	}
}
