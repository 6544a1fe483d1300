// Package build holds build-time information.
package build

import "fmt"

// Set by linker flags, e.g. -ldflags "-X go.trai.ch/quick/internal/build.Version=v0.3.0".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info renders the version line printed by the CLI.
func Info() string {
	return fmt.Sprintf("quick version %s (commit %s, built %s)", Version, Commit, Date)
}
