// Package version exposes build version information for the CLI.
package version

import (
	"fmt"
	"runtime/debug"
)

// These can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/kasalink/kasalink/internal/version.Version=v1.2.3 \
//	                   -X github.com/kasalink/kasalink/internal/version.Commit=abc123"
//
// If unset, they are populated from Go's embedded VCS info when built
// from a git checkout, falling back to "dev"/"unknown".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range info.Settings {
		if setting.Key != "vcs.revision" || Commit != "" {
			continue
		}
		rev := setting.Value
		if len(rev) > 7 {
			rev = rev[:7]
		}
		Commit = rev
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
