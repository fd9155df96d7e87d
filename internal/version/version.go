// Package version holds the build version, overridable with
// -ldflags "-X clrgen/internal/version.Version=...".
package version

var Version = "dev"
