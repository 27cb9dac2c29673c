// Package version reports the build metadata of mc-bootstrap, injected through ldflags.
package version
