package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release of the build. Overridden via ldflags.
	Version = "dev"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the release string.
func Short() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}

// Full returns a human-readable version line with commit and build time.
func Full() string {
	return fmt.Sprintf("bdupdater %s (commit %s, built %s)", Short(), Commit, BuildTime)
}
