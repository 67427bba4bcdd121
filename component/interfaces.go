package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the process: the STT provider,
// the HTTP server, the telemetry exporters.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	Start(ctx context.Context) error

	// Stop releases resources. It must be safe to call more than once.
	Stop(ctx context.Context) error

	Health(ctx context.Context) Health
}

// Description is what a component reports about itself in the startup summary.
type Description struct {
	// Name is the display name; the component's Name() is used when empty.
	Name string
	// Type categorizes the component: "stt", "server", "telemetry".
	Type string
	// Details is a one-liner such as "model=base image=fedirz/faster-whisper-server:latest-cpu".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by components that want a line in
// the startup summary.
type Describable interface {
	Describe() Description
}

// Route holds a single HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by server components.
type RouteProvider interface {
	Routes() []Route
}
