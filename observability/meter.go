package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/localstt/logger"
)

// InitMeter installs a periodic OTLP/HTTP meter provider as the global one.
// Shut the returned provider down on exit.
func InitMeter(ctx context.Context, svc ServiceInfo, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// STTMetrics holds the provider's instruments.
type STTMetrics struct {
	serverStarts          metric.Int64Counter
	transcriptions        metric.Int64Counter
	transcriptionDuration metric.Float64Histogram
	activeSessions        metric.Int64UpDownCounter
}

// NewSTTMetrics creates the instruments on meter.
func NewSTTMetrics(meter metric.Meter) (*STTMetrics, error) {
	serverStarts, err := meter.Int64Counter("stt.server.starts",
		metric.WithDescription("Inference server start attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stt.server.starts counter: %w", err)
	}

	transcriptions, err := meter.Int64Counter("stt.transcriptions",
		metric.WithDescription("Transcription requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stt.transcriptions counter: %w", err)
	}

	transcriptionDuration, err := meter.Float64Histogram("stt.transcription.duration",
		metric.WithDescription("Remote transcription latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stt.transcription.duration histogram: %w", err)
	}

	activeSessions, err := meter.Int64UpDownCounter("stt.sessions.active",
		metric.WithDescription("Open transcription sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stt.sessions.active counter: %w", err)
	}

	return &STTMetrics{
		serverStarts:          serverStarts,
		transcriptions:        transcriptions,
		transcriptionDuration: transcriptionDuration,
		activeSessions:        activeSessions,
	}, nil
}

// RecordServerStart counts one start attempt.
func (m *STTMetrics) RecordServerStart(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.serverStarts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordTranscription counts one transcription and its latency.
func (m *STTMetrics) RecordTranscription(ctx context.Context, model, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.transcriptions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	))
	m.transcriptionDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("model", model)))
}

// SessionOpened increments the active session gauge.
func (m *STTMetrics) SessionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// SessionClosed decrements the active session gauge.
func (m *STTMetrics) SessionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
