package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/localstt/component"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/plugin"
)

// DefaultHookTimeout bounds a plugin shutdown hook registered without a timeout.
const DefaultHookTimeout = 10 * time.Second

type shutdownHook struct {
	name    string
	timeout time.Duration
	fn      plugin.ShutdownHook
}

// RegisterConfigSchema stores a plugin configuration schema. Schema names
// must be unique.
func (a *App[C]) RegisterConfigSchema(schema plugin.Schema) error {
	a.hostMu.Lock()
	defer a.hostMu.Unlock()
	if _, ok := a.schemas[schema.Name]; ok {
		return fmt.Errorf("config schema %q already registered", schema.Name)
	}
	a.schemas[schema.Name] = schema
	return nil
}

// ConfigSchema returns the schema registered under name.
func (a *App[C]) ConfigSchema(name string) (plugin.Schema, bool) {
	a.hostMu.Lock()
	defer a.hostMu.Unlock()
	s, ok := a.schemas[name]
	return s, ok
}

// RegisterSTTProvider stores p under name. Providers that are also
// components join the component registry so they report health and stop
// with the application.
func (a *App[C]) RegisterSTTProvider(name string, p plugin.STTProvider) error {
	a.hostMu.Lock()
	if _, ok := a.providers[name]; ok {
		a.hostMu.Unlock()
		return fmt.Errorf("stt provider %q already registered", name)
	}
	a.providers[name] = p
	a.hostMu.Unlock()

	if c, ok := p.(component.Component); ok {
		if err := a.Components.Register(c); err != nil {
			return err
		}
	}
	a.Logger.Debug("stt provider registered", logger.Fields("provider", name))
	return nil
}

// STTProvider returns the provider registered under name.
func (a *App[C]) STTProvider(name string) (plugin.STTProvider, bool) {
	a.hostMu.Lock()
	defer a.hostMu.Unlock()
	p, ok := a.providers[name]
	return p, ok
}

// ComponentLogger returns the application logger tagged with name.
func (a *App[C]) ComponentLogger(name string) *logger.Logger {
	return a.Logger.WithComponent(name)
}

// OnShutdown registers a plugin shutdown hook. Hooks run in reverse
// registration order, each bounded by its own timeout.
func (a *App[C]) OnShutdown(name string, timeout time.Duration, hook plugin.ShutdownHook) {
	if timeout <= 0 {
		timeout = DefaultHookTimeout
	}
	a.hostMu.Lock()
	a.shutdownHooks = append(a.shutdownHooks, shutdownHook{name: name, timeout: timeout, fn: hook})
	a.hostMu.Unlock()
}

// runShutdownHooks runs every registered hook once, last registered first.
// A failing or slow hook does not prevent the rest from running.
func (a *App[C]) runShutdownHooks() error {
	a.hostMu.Lock()
	hooks := a.shutdownHooks
	a.shutdownHooks = nil
	a.hostMu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		err := runBounded(ctx, h.fn)
		cancel()
		if err != nil {
			a.Logger.Error("shutdown hook failed", logger.MergeWithError(logger.Fields("hook", h.name), err))
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}

// runBounded returns when fn does or ctx ends, whichever is first.
func runBounded(ctx context.Context, fn plugin.ShutdownHook) error {
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
