// Package buildinfo exposes version metadata injected at build time.
package buildinfo

import "fmt"

// Info captures identifying metadata for a build of cpuload.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
}

// These variables are intended to be overridden via -ldflags during release builds.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Current returns the build metadata for logging, the client user agent, and
// the status endpoint.
func Current() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}

// String renders the metadata for `cpuload version`.
func (i Info) String() string {
	return fmt.Sprintf("cpuload %s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildDate)
}
