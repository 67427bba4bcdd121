package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/stt"
	"github.com/kbukum/localstt/workload"
)

const (
	// Name is the plugin and provider registration name.
	Name = "local-stt"

	// ShutdownTimeout bounds the plugin's shutdown hook.
	ShutdownTimeout = 10 * time.Second
)

// Plugin adapts an stt.Provider to a Host. It owns exactly one provider,
// created by Init.
type Plugin struct {
	cfg     stt.Config
	manager workload.Manager
	opts    []stt.Option

	mu       sync.Mutex
	provider *stt.Provider
}

// New creates a plugin for cfg. Nothing is started until Init.
func New(cfg stt.Config, manager workload.Manager, opts ...stt.Option) *Plugin {
	return &Plugin{cfg: cfg, manager: manager, opts: opts}
}

// Init registers the schema, validates the configuration, creates the
// provider and registers it with the host together with a shutdown hook.
func (p *Plugin) Init(_ context.Context, host Host) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.provider != nil {
		return fmt.Errorf("plugin %s: already initialized", Name)
	}

	if err := host.RegisterConfigSchema(ConfigSchema()); err != nil {
		return fmt.Errorf("plugin %s: register schema: %w", Name, err)
	}

	log := host.ComponentLogger(Name)
	opts := append([]stt.Option{stt.WithLogger(log)}, p.opts...)
	prov, err := stt.NewProvider(p.cfg, p.manager, opts...)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", Name, err)
	}
	if err := prov.ValidateConfig(); err != nil {
		return err
	}

	if err := host.RegisterSTTProvider(Name, prov); err != nil {
		return fmt.Errorf("plugin %s: register provider: %w", Name, err)
	}
	host.OnShutdown(Name, ShutdownTimeout, prov.Shutdown)

	p.provider = prov
	cfg := prov.Config()
	log.Info("plugin initialized", map[string]interface{}{
		"model":    cfg.Model,
		"language": cfg.Language,
		"port":     cfg.Port,
	})
	return nil
}

// Provider returns the provider created by Init, or nil before Init.
func (p *Plugin) Provider() *stt.Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.provider
}

// Shutdown stops the provider. It is a no-op before Init and safe to call
// more than once.
func (p *Plugin) Shutdown(ctx context.Context) error {
	prov := p.Provider()
	if prov == nil {
		return nil
	}
	return prov.Shutdown(ctx)
}

func (p *Plugin) requireProvider() (*stt.Provider, error) {
	prov := p.Provider()
	if prov == nil {
		return nil, errors.ServiceUnavailable("stt provider")
	}
	return prov, nil
}
