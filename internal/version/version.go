// Package version reports the module path and build version of the
// running binary.
package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const fallbackModule = "pkt.systems/orrery"

// buildVersion can be stamped at link time:
//
//	-ldflags "-X pkt.systems/orrery/internal/version.buildVersion=v1.2.3"
var buildVersion string

// Module reports the main module path, falling back to the canonical
// import path when build info is unavailable.
func Module() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			return path
		}
	}
	return fallbackModule
}

// Current reports the most specific version available: the linker
// override first, then the module version stamped by the toolchain,
// then a pseudo-version derived from VCS metadata.
func Current() string {
	if v := strings.TrimSpace(buildVersion); v != "" {
		return strings.TrimSuffix(v, "+dirty")
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "v0.0.0-unknown"
	}
	if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
		return v
	}
	if v := vcsPseudoVersion(info); v != "" {
		return v
	}
	return "v0.0.0-unknown"
}

func vcsPseudoVersion(info *debug.BuildInfo) string {
	var revision, stamp string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			stamp = s.Value
		}
	}
	if revision == "" || stamp == "" {
		return ""
	}
	at, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return "v0.0.0-" + at.UTC().Format("20060102150405") + "-" + revision
}
