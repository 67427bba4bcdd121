package observability

import (
	"context"
	"errors"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/localstt/component"
)

// Telemetry owns the exporter providers so the host can flush them on shutdown.
type Telemetry struct {
	svc ServiceInfo
	cfg Config

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Telemetry)(nil)

// NewTelemetry creates the telemetry component.
func NewTelemetry(svc ServiceInfo, cfg Config) *Telemetry {
	cfg.ApplyDefaults()
	return &Telemetry{svc: svc, cfg: cfg}
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start installs the exporters when enabled.
func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	tp, err := InitTracer(ctx, t.svc, t.cfg)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, t.svc, t.cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	t.tp, t.mp = tp, mp
	return nil
}

// Stop flushes and shuts down the providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	tp, mp := t.tp, t.mp
	t.tp, t.mp = nil, nil
	t.mu.Unlock()

	var errs []error
	if mp != nil {
		errs = append(errs, mp.Shutdown(ctx))
	}
	if tp != nil {
		errs = append(errs, tp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health implements component.Component.
func (t *Telemetry) Health(context.Context) component.Health {
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if !t.cfg.Enabled {
		h.Message = "disabled"
	}
	return h
}

// Describe implements component.Describable.
func (t *Telemetry) Describe() component.Description {
	details := "disabled"
	if t.cfg.Enabled {
		details = "otlp http " + t.cfg.Endpoint
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
