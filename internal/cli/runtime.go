package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/localstt/bootstrap"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/observability"
	"github.com/kbukum/localstt/plugin"
	"github.com/kbukum/localstt/stt"
	"github.com/kbukum/localstt/version"
	"github.com/kbukum/localstt/workload"
)

// runtime is one assembled application: host, container runtime and the
// STT plugin. The plugin is initialized during the configure phase.
type runtime struct {
	app      *bootstrap.App[*AppConfig]
	plugin   *plugin.Plugin
	progress *pullProgress
}

// provider returns the initialized STT provider. Valid inside a task.
func (r *runtime) provider() *stt.Provider {
	return r.plugin.Provider()
}

// build assembles the application. Components start in registration order:
// telemetry, container runtime, then the provider registered by the plugin.
func (a *appState) build(cfg *AppConfig, showSummary bool) (*runtime, error) {
	opts := []bootstrap.Option{bootstrap.WithSummaryOutput(a.errOut)}
	if !showSummary {
		opts = append(opts, bootstrap.WithoutSummary())
	}
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	manager, err := a.newManager(cfg, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("container runtime: %w", err)
	}
	if closer, ok := manager.(io.Closer); ok {
		app.OnStop(func(context.Context) error { return closer.Close() })
	}

	telemetry := observability.NewTelemetry(observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, cfg.Observability)
	if err := app.RegisterComponent(telemetry); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(workload.NewComponent(manager, cfg.Workload.Provider)); err != nil {
		return nil, err
	}

	rt := &runtime{app: app}
	if a.progressEnabled() {
		rt.progress = newPullProgress(a.errOut)
	}

	app.OnConfigure(func(ctx context.Context, host *bootstrap.App[*AppConfig]) error {
		metrics, err := observability.NewSTTMetrics(observability.Meter())
		if err != nil {
			host.Logger.Warn("STT metrics unavailable", logger.ErrorFields("metrics", err))
		}
		sttOpts := []stt.Option{
			stt.WithMetrics(metrics),
			stt.WithVersion(version.Get().Version),
		}
		if rt.progress != nil {
			sttOpts = append(sttOpts, stt.WithPullProgress(rt.progress.Update))
		}
		rt.plugin = plugin.New(cfg.STT, manager, sttOpts...)
		return rt.plugin.Init(ctx, host)
	})
	return rt, nil
}

// runTask loads config, builds the runtime and runs task under the
// bootstrap lifecycle.
func (a *appState) runTask(ctx context.Context, task func(ctx context.Context, rt *runtime) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	rt, err := a.build(cfg, false)
	if err != nil {
		return err
	}
	return rt.app.RunTask(ctx, func(ctx context.Context) error {
		defer rt.progress.Finish()
		return task(ctx, rt)
	})
}
