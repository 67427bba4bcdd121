// Package docker implements workload.Manager on the Docker Engine API.
//
// Importing the package registers the "docker" runtime with workload.New.
// Published ports bind to 127.0.0.1 only.
package docker
