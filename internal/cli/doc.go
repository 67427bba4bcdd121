// Package cli implements the localstt command tree: transcribe, status,
// models, health, serve and version. Every command assembles the same
// bootstrap application (telemetry, container runtime, STT plugin) and runs
// as a finite task except serve, which blocks until interrupted.
package cli
