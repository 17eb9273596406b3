package app

import "fmt"

// Build metadata, overridden via -ldflags "-X .../internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the build metadata for startup logs and the health
// endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, BuildTime)
}
