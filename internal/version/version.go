// Package version exposes the build version, overridden at link time
// via -ldflags "-X github.com/bnema/wekan-cli/internal/version.Version=...".
package version

var Version = "dev"
