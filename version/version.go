// Package version reports ciprobe's build information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Set at build time via
//
//	-ldflags "-X github.com/teranos/ciprobe/version.Version=v1.2.0 -X ...CommitHash=... -X ...BuildTime=..."
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Release    bool   `json:"release"`
}

// Get returns the build information. Values missing from ldflags are filled
// from the module build info when `go install` stamped it.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.CommitHash == "dev" {
					info.CommitHash = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "unknown" {
					info.BuildTime = s.Value
				}
			}
		}
	}

	info.Release = IsRelease(info.Version)
	return info
}

// IsRelease reports whether v is a tagged semantic version without a prerelease suffix.
func IsRelease(v string) bool {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return sv.Prerelease() == ""
}

func (i Info) String() string {
	return fmt.Sprintf("ciprobe %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
