// Package testutil provides an in-memory workload.Manager for tests that
// exercise container orchestration without a runtime.
package testutil
