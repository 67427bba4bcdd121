// Package bootstrap orchestrates application lifecycle and hosts plugins.
//
// App loads nothing itself; it takes a validated config, owns the component
// registry, runs startup and shutdown hooks, and implements plugin.Host so
// the STT plugin can register its schema, provider and shutdown hook.
//
// Run blocks until SIGINT or SIGTERM for long-running services. RunTask
// runs a finite task with the same startup and shutdown sequence, which is
// what the CLI's one-shot commands use.
package bootstrap
