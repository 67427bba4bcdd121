package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/localstt/component"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/plugin"
)

// App represents an application with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config
// interface. App also implements plugin.Host.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return stt.New(a.Cfg.STT, manager).Init(ctx, a)
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook

	hostMu        sync.Mutex
	schemas       map[string]plugin.Schema
	providers     map[string]plugin.STTProvider
	shutdownHooks []shutdownHook
	stopOnce      sync.Once
	stopErr       error
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
		schemas:         make(map[string]plugin.Schema),
		providers:       make(map[string]plugin.STTProvider),
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	var out io.Writer = os.Stderr
	if o.summaryOut != nil {
		out = o.summaryOut
	}
	if o.quiet {
		out = io.Discard
	}
	app.Summary = NewSummary(base.Name, base.Version, out)
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback to run during the configure phase.
// Plugins are initialized here, after infrastructure components started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that no registered component is unhealthy. Degraded
// components pass.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusUnhealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run executes the full application lifecycle for long-running services:
// start components, OnStart hooks, configure, ready check, OnReady hooks,
// block on signal, then shut down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle. It does
// not block on signals; SIGINT or SIGTERM cancel the task's context. The
// application shuts down when the task returns.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)
	if taskCtx.Err() != nil && ctx.Err() == nil {
		a.Logger.Info("Received signal, task canceled")
	}

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	// Components registered while configuring, such as plugin providers.
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start configured components: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Display(ctx, a.Components)
	return nil
}

// configure runs registered configuration callbacks.
func (a *App[C]) configure(ctx context.Context) error {
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields(
			"signal", sig.String(),
		))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
// Only the first call does any work.
func (a *App[C]) Shutdown(context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, plugin shutdown hooks (last registered first, each
// under its own timeout), then stops components in reverse order within the
// graceful timeout. Every step runs even when an earlier one fails.
func (a *App[C]) stop() error {
	a.stopOnce.Do(func() {
		a.Logger.Info("Shutting down application", logger.Fields(
			"timeout", a.gracefulTimeout.String(),
		))

		ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
		defer cancel()

		var errs []error
		if err := runHooks(ctx, a.onStop); err != nil {
			a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", err))
			errs = append(errs, err)
		}
		if err := a.runShutdownHooks(); err != nil {
			errs = append(errs, err)
		}
		if err := a.Components.StopAll(ctx); err != nil {
			a.Logger.Error("Component shutdown completed with errors", logger.ErrorFields("stop_components", err))
			errs = append(errs, err)
		}

		a.stopErr = errors.Join(errs...)
		a.Logger.Info("Application shutdown complete")
	})
	return a.stopErr
}
