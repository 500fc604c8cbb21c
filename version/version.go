// Package version holds build information injected at link time.
package version

import "runtime"

// Set via -ldflags at build time:
//
//	-X github.com/jackzampolin/promptrun/version.GitRelease=v0.3.0
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain used for the build.
var GoInfo = runtime.Version()
