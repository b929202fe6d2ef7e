// SPDX-License-Identifier: MPL-2.0

package broker

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestContainerRequestDefaults(t *testing.T) {
	t.Parallel()

	req := containerRequest(Options{})

	if req.Image != DefaultImage {
		t.Errorf("Image = %q, want %q", req.Image, DefaultImage)
	}
	if req.Env["RABBITMQ_USERNAME"] != DefaultUsername {
		t.Errorf("RABBITMQ_USERNAME = %q, want %q", req.Env["RABBITMQ_USERNAME"], DefaultUsername)
	}
	if req.Env["RABBITMQ_PASSWORD"] != DefaultPassword {
		t.Errorf("RABBITMQ_PASSWORD = %q, want %q", req.Env["RABBITMQ_PASSWORD"], DefaultPassword)
	}
	if len(req.ExposedPorts) != 1 || req.ExposedPorts[0] != "5672/tcp" {
		t.Errorf("ExposedPorts = %v, want [5672/tcp]", req.ExposedPorts)
	}
	if req.HostConfigModifier == nil {
		t.Fatal("expected a host config modifier binding the fixed AMQP port")
	}
	if req.WaitingFor == nil {
		t.Fatal("expected a readiness wait strategy")
	}
}

func TestContainerRequestOverrides(t *testing.T) {
	t.Parallel()

	req := containerRequest(Options{
		Image:          "bitnami/rabbitmq:4.0",
		StartupTimeout: 30 * time.Second,
	})

	if req.Image != "bitnami/rabbitmq:4.0" {
		t.Errorf("Image = %q, want custom image", req.Image)
	}
}

func TestBrokerURL(t *testing.T) {
	t.Parallel()

	b := &Broker{image: DefaultImage}
	url := b.URL()
	if !strings.HasPrefix(url, "amqp://") {
		t.Errorf("URL = %q, want amqp scheme", url)
	}
	if !strings.HasSuffix(url, "@localhost:5672") {
		t.Errorf("URL = %q, want fixed localhost:5672 endpoint", url)
	}
}

func TestTerminateNilContainer(t *testing.T) {
	t.Parallel()

	b := &Broker{}
	if err := b.Terminate(context.Background()); err != nil {
		t.Errorf("expected nil for broker without container, got %v", err)
	}
}

// TestBroker_Integration starts a real RabbitMQ container. Requires a
// container engine.
func TestBroker_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !Available() {
		t.Skip("skipping broker integration test: container provider not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	b, err := Start(ctx, Options{})
	if err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Terminate(context.Background()); err != nil {
			t.Logf("warning: failed to terminate broker: %v", err)
		}
	})

	if b.Image() != DefaultImage {
		t.Errorf("Image() = %q, want %q", b.Image(), DefaultImage)
	}
	if !strings.Contains(b.URL(), "localhost:5672") {
		t.Errorf("URL() = %q, want localhost:5672", b.URL())
	}
}
