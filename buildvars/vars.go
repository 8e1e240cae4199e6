// Package buildvars contains variables injected at build time.
package buildvars

import (
	"os"
	"runtime/debug"
)

// Version, GitID and BuildHost are set at link time via
// `-ldflags -X github.com/refpersys/rpsfront/buildvars.Version=...`.
// They are empty for local or development builds.
var (
	Version   string
	GitID     string
	BuildHost string
)

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// ShortGitID returns the first 12 characters of the commit the binary was
// built from, falling back to the VCS stamp recorded by the Go toolchain.
func ShortGitID() string {
	id := GitID
	if id == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					id = s.Value
				}
			}
		}
	}
	if id == "" {
		return "unknown"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// Host returns BuildHost, or the current host name when it was not injected.
func Host() string {
	if BuildHost != "" {
		return BuildHost
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
