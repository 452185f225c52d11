package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the release version embedded in the binary.
// It can be overridden at build time via:
// go build -ldflags "-X github.com/oukeidos/vocabx/internal/version.Version=0.1.0"
var Version = "0.1.0"

// Commit and BuildDate are set the same way. When left unset they are
// filled from the VCS stamp Go embeds in module builds.
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// Info returns a multi-line version string for CLI output.
func Info() string {
	commit, date := Commit, BuildDate
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown":
				commit = s.Value
				if len(commit) > 12 {
					commit = commit[:12]
				}
			case s.Key == "vcs.time" && date == "unknown":
				date = s.Value
			}
		}
	}
	return fmt.Sprintf("vocabx %s\ncommit: %s\nbuild: %s", Version, commit, date)
}
