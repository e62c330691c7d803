// Package version exposes what the setupcheck binary knows about its own
// build. Release builds stamp the variables below through the linker, for
// example:
//
//	go build -ldflags "-X github.com/Aman-CERP/setupcheck/pkg/version.Version=1.2.0 \
//	    -X github.com/Aman-CERP/setupcheck/pkg/version.Commit=$(git rev-parse --short HEAD)"
//
// A plain go build leaves them at their placeholders.
package version

import (
	"fmt"
	"runtime"
)

// Version is the release this binary was cut from, "dev" when unstamped.
var Version = "dev"

var (
	// Commit is the short revision the release was built from.
	Commit = "unknown"

	// Date is when the release was built (RFC3339).
	Date = "unknown"

	// GoVersion is the toolchain that produced the binary.
	GoVersion = runtime.Version()
)

// BuildInfo is what `setupcheck version --json` prints.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// String is the one-line banner of `setupcheck version`.
func String() string {
	return fmt.Sprintf("setupcheck %s (commit: %s, built: %s, go: %s, %s/%s)",
		Version, Commit, Date, GoVersion, runtime.GOOS, runtime.GOARCH)
}

// Short is the bare release number, for scripts.
func Short() string {
	return Version
}

// GetInfo collects the stamped values and the running platform.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
