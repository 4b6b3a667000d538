package version

import "fmt"

// Version contains the application version information.
// Set via build-time ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/assetstager/internal/version.Version=v1.2.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the line printed by --version.
func String() string {
	return fmt.Sprintf("assetstager %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
