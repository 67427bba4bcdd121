// Package workload manages the container that hosts the inference server.
package workload

import (
	"context"
)

// Manager drives one container runtime. Implementations must be safe for
// concurrent use.
type Manager interface {
	// PullImage fetches image, reporting progress to onProgress when it is non-nil.
	PullImage(ctx context.Context, image string, onProgress ProgressFunc) error

	// Create creates a container without starting it.
	Create(ctx context.Context, req DeployRequest) (*DeployResult, error)

	// Start starts a created container.
	Start(ctx context.Context, id string) error

	// Stop gracefully stops a running container.
	Stop(ctx context.Context, id string) error

	// Remove deletes a container and its anonymous volumes.
	Remove(ctx context.Context, id string) error

	// HealthCheck verifies the runtime itself is reachable.
	HealthCheck(ctx context.Context) error
}

// ProgressFunc receives image-pull progress updates. It is called from the
// pulling goroutine and must not block for long.
type ProgressFunc func(PullProgress)

// PullProgress is one progress update for a single image layer.
type PullProgress struct {
	// ID is the layer ID, empty for image-level status lines.
	ID string
	// Status is the runtime's status text, e.g. "Downloading" or "Pull complete".
	Status string
	// Current and Total are byte counts; Total is 0 when unknown.
	Current int64
	Total   int64
}

// Status constants for container state.
const (
	StatusCreated = "created"
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// Provider constants for well-known runtimes.
const (
	ProviderDocker = "docker"
)

// DeployRequest describes a container to create.
type DeployRequest struct {
	Name        string            // container name, empty lets the runtime choose
	Image       string            // image reference
	Environment map[string]string // environment variables
	Labels      map[string]string // labels for filtering and cleanup
	Ports       []PortMapping     // published ports
	AutoRemove  bool              // remove once stopped
	Platform    string            // target platform, e.g. "linux/amd64"
}

// DeployResult is returned after a successful create.
type DeployResult struct {
	ID     string
	Name   string
	Status string
}

// PortMapping maps a container port to a host port.
type PortMapping struct {
	Host      int
	Container int
	Protocol  string // "tcp" (default) or "udp"
}
