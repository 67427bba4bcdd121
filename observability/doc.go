// Package observability wires OpenTelemetry tracing and metrics.
//
// Exporters are opt-in through Config.Enabled; until then the global no-op
// providers absorb every span and measurement. STTMetrics holds the
// provider's instruments and tolerates a nil receiver.
package observability
