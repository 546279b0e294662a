// Package version resolves the running binary's version.
package version

import (
	"runtime/debug"
	"strings"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Effective returns v when set at build time, otherwise a version derived
// from the module build info: the module version, a devel+revision string,
// or "devel".
func Effective(v string) string {
	if v != "" {
		return v
	}
	info, ok := readBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// IsDevelopment reports whether v names an unreleased build.
func IsDevelopment(v string) bool {
	return v == "" || v == "unknown" || strings.HasPrefix(v, "devel")
}
