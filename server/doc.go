// Package server exposes the speech-to-text provider over HTTP using Gin,
// served with h2c so HTTP/2 clients work without TLS.
//
// # Endpoints
//
//   - GET /health: aggregate component health
//   - GET /version: build information
//   - GET /v1/status: provider status with a live health probe
//   - GET /v1/models: supported models and the configured one
//   - POST /v1/transcriptions: multipart upload of one utterance
//
// # Middleware
//
// Every request passes through server/middleware: panic recovery, request-ID
// propagation, a body-size cap and request logging.
//
// Errors are returned as the errors package envelope with the status carried
// by each AppError.
package server
