package plugin

import (
	"context"
	"time"

	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/stt"
)

// STTProvider is the contract a host sees for a registered speech-to-text
// provider.
type STTProvider interface {
	ValidateConfig() error
	CreateSession(ctx context.Context, opts stt.SessionOptions) (*stt.Session, error)
	TranscribeOnce(ctx context.Context, audio []byte, opts stt.SessionOptions) (string, error)
	HealthCheck(ctx context.Context) bool
	Shutdown(ctx context.Context) error
}

var _ STTProvider = (*stt.Provider)(nil)

// ShutdownHook runs once when the host shuts down.
type ShutdownHook func(ctx context.Context) error

// Host is the application a plugin is loaded into.
type Host interface {
	// RegisterConfigSchema declares the configuration a plugin accepts.
	RegisterConfigSchema(schema Schema) error

	// RegisterSTTProvider makes p available under name.
	RegisterSTTProvider(name string, p STTProvider) error

	// ComponentLogger returns a logger tagged with the component name.
	ComponentLogger(name string) *logger.Logger

	// OnShutdown registers hook to run during graceful shutdown, bounded by timeout.
	OnShutdown(name string, timeout time.Duration, hook ShutdownHook)
}
