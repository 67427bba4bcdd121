// Package workload abstracts the container runtime behind Manager so the
// STT lifecycle can pull, create, start, stop and remove the inference
// server without knowing which runtime hosts it.
//
// Runtimes register a factory from init; import the runtime package for its
// side effect and call New:
//
//	import _ "github.com/kbukum/localstt/workload/docker"
//
//	m, err := workload.New(workload.Config{}, &docker.Config{}, log)
//
// Image pulls report per-layer progress through ProgressFunc. The
// workload/testutil package provides an in-memory Manager for tests.
package workload
