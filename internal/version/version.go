// Package version carries the build identity stamped into the wifid
// binaries. Release builds inject both values through ldflags:
//
//	go build -ldflags="-X github.com/muurk/wifid/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/wifid/internal/version.Commit=abc123"
//
// Unstamped builds (go install, local go build) fall back to the VCS
// metadata Go embeds in the binary, and finally to a dev placeholder so
// the daemon and the control tool always report something meaningful.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// Version is the release tag, or a dev placeholder.
	Version = ""
	// Commit is the short git revision, with a -dirty suffix when the
	// working tree had local changes.
	Commit = ""
)

func init() {
	rev, modified, stamp := vcsInfo()

	if Commit == "" {
		Commit = shortRev(rev)
		if Commit != "" && modified {
			Commit += "-dirty"
		}
	}
	if Version == "" && !stamp.IsZero() {
		Version = "dev-" + stamp.Format("20060102")
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// vcsInfo pulls the revision, dirty flag and commit time out of the
// embedded build info. Missing build info yields zero values.
func vcsInfo() (rev string, modified bool, stamp time.Time) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false, time.Time{}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				stamp = t
			}
		}
	}
	return rev, modified, stamp
}

func shortRev(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Full returns the version and commit in one string, suitable for
// --version output and startup logs.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
