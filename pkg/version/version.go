// Package version exposes build metadata stamped in at link time via
// -ldflags "-X ...".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info renders a single human-readable version line for the CLI.
func Info() string {
	return fmt.Sprintf("charlie version %s (commit: %s, built: %s, go: %s)",
		Version, GitCommit, BuildTime, runtime.Version())
}
