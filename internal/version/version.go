package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Version, Commit and BuildDate are stamped at release time, e.g.
// go build -ldflags "-X github.com/oukeidos/cropper/internal/version.Commit=abcdef1"
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	readBuildInfo = debug.ReadBuildInfo
	stampOnce     sync.Once
)

// stamp fills Commit and BuildDate from the VCS settings the go tool embeds
// when they were not set through -ldflags.
func stamp() {
	stampOnce.Do(func() {
		info, ok := readBuildInfo()
		if !ok {
			return
		}
		dirty := false
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "unknown" && s.Value != "" {
					Commit = shortRevision(s.Value)
				}
			case "vcs.time":
				if BuildDate == "unknown" && s.Value != "" {
					BuildDate = s.Value
				}
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
		if dirty && Commit != "unknown" {
			Commit += "-dirty"
		}
	})
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Short returns just the release version.
func Short() string {
	return Version
}

// Details returns the commit and build date, resolved from build info if needed.
func Details() (commit, buildDate string) {
	stamp()
	return Commit, BuildDate
}

// Info returns a multi-line version string for CLI output.
func Info() string {
	commit, built := Details()
	return fmt.Sprintf("cropper %s\ncommit: %s\nbuild: %s", Version, commit, built)
}
