// Package version reports the hunttrack build version.
package version

import "runtime/debug"

// version is set at build time via -ldflags "-X hunttrack/internal/version.version=...".
var version = "dev" //nolint:gochecknoglobals // ldflags requires package-level var

// String returns the ldflags version, falling back to the module version
// recorded by "go install" and then to "dev".
func String() string {
	if version != "dev" {
		return version
	}
	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
