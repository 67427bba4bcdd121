// Package version reports the build of the localstt binary. Version, commit
// and build time can be set via -ldflags; otherwise the commit and time come
// from the VCS stamp Go embeds in module builds.
package version
