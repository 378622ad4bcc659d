package relay

import (
	"fmt"
	"runtime"
)

// Build metadata, set with ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/relay.Version=1.0.0 -X github.com/ZaguanLabs/relay.GitCommit=$(git rev-parse HEAD)"
const (
	Name        = "relay"
	Description = "Resilient model invocation and document translation"
	Repository  = "https://github.com/ZaguanLabs/relay"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// Info returns the build metadata of the running binary.
func Info() BuildInfo {
	return BuildInfo{
		Name:      Name,
		Version:   FullVersion(),
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", b.Name, b.Version, b.Commit, b.BuildDate, b.GoVersion)
}

// FullVersion returns the version with the short commit appended when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent is sent on every outbound provider request.
func UserAgent() string {
	return Name + "/" + Version
}
