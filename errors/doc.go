// Package errors provides the typed error taxonomy of the STT provider.
// Every failure surfaced to callers is an *AppError carrying a machine-readable
// code, an HTTP status for the status surface, and enough detail (status code,
// timeout, offending value) to decide whether to retry or reconfigure.
package errors
