package version

import (
	"fmt"
	"runtime"
)

//nolint:gochecknoglobals // Overridden with -ldflags "-X".
var (
	// Version is the release of mc-bootstrap.
	Version = "0.1.0"
	// Commit is the short git SHA of the build, or "none".
	Commit = "none"
	// BuildTime is the UTC build timestamp, or "unknown".
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get collects build and runtime metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders every field on one line.
func (i Info) String() string {
	return fmt.Sprintf("mc-bootstrap %s (commit %s, built %s, %s %s)",
		i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
}

// UserAgent is sent with every HTTP request, e.g. "mc-bootstrap/0.1.0 (linux/amd64)".
func UserAgent() string {
	info := Get()

	return "mc-bootstrap/" + info.Version + " (" + info.Platform + ")"
}
