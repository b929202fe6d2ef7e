// SPDX-License-Identifier: MPL-2.0

// Package broker provisions a disposable RabbitMQ container for benchmark
// runs, so the harness executables find a broker on localhost:5672 without
// any manual setup.
package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	dockercontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultImage is the RabbitMQ container image used when none is configured.
	DefaultImage = "bitnami/rabbitmq:3.12"
	// DefaultUsername is the broker user the bitnami image is provisioned with.
	DefaultUsername = "user"
	// DefaultPassword is the broker password the bitnami image is provisioned with.
	DefaultPassword = "bitnami"
	// DefaultStartupTimeout bounds how long to wait for the broker to accept
	// connections.
	DefaultStartupTimeout = 2 * time.Minute

	// amqpPort is the broker's AMQP listener. The benchmark executables
	// hard-code localhost:5672, so the container must bind this exact host
	// port instead of a randomized one.
	amqpPort nat.Port = "5672/tcp"
)

// ErrProvisionFailed is returned when the broker container cannot be started.
var ErrProvisionFailed = errors.New("broker provisioning failed")

type (
	// Options configures broker provisioning.
	Options struct {
		// Image is the RabbitMQ container image; empty means DefaultImage.
		Image string
		// StartupTimeout bounds the wait for broker readiness; zero means
		// DefaultStartupTimeout.
		StartupTimeout time.Duration
	}

	// ProvisionError is returned when the broker container cannot be started.
	// It wraps ErrProvisionFailed for errors.Is().
	ProvisionError struct {
		Image string
		Cause error
	}

	// Broker is a running RabbitMQ container.
	Broker struct {
		container testcontainers.Container
		image     string
	}
)

// Error implements the error interface for ProvisionError.
func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision broker from image %q: %v", e.Image, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ProvisionError) Unwrap() error { return ErrProvisionFailed }

// Available safely checks whether a container provider can be used.
// The provider lookup can panic on hosts without a container socket,
// so the check recovers and reports false instead.
func Available() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// containerRequest builds the container request for the given options.
func containerRequest(opts Options) testcontainers.ContainerRequest {
	image := opts.Image
	if image == "" {
		image = DefaultImage
	}
	timeout := opts.StartupTimeout
	if timeout == 0 {
		timeout = DefaultStartupTimeout
	}

	return testcontainers.ContainerRequest{
		Image: image,
		Env: map[string]string{
			"RABBITMQ_USERNAME": DefaultUsername,
			"RABBITMQ_PASSWORD": DefaultPassword,
		},
		ExposedPorts: []string{string(amqpPort)},
		WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(timeout),
		HostConfigModifier: func(hc *dockercontainer.HostConfig) {
			hc.PortBindings = nat.PortMap{
				amqpPort: []nat.PortBinding{
					{HostIP: "0.0.0.0", HostPort: amqpPort.Port()},
				},
			}
		},
	}
}

// Start provisions a RabbitMQ container and waits until it accepts
// connections. Callers must Terminate the returned broker.
func Start(ctx context.Context, opts Options) (*Broker, error) {
	req := containerRequest(opts)

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, &ProvisionError{Image: req.Image, Cause: err}
	}

	return &Broker{container: ctr, image: req.Image}, nil
}

// Image returns the container image the broker was started from.
func (b *Broker) Image() string { return b.image }

// URL returns the AMQP connection URL for the running broker.
func (b *Broker) URL() string {
	return fmt.Sprintf("amqp://%s:%s@localhost:%s", DefaultUsername, DefaultPassword, amqpPort.Port())
}

// Terminate stops and removes the broker container.
func (b *Broker) Terminate(ctx context.Context) error {
	if b.container == nil {
		return nil
	}
	if err := b.container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate broker container: %w", err)
	}
	return nil
}
