// Package version carries build identification, set at link time via
// -ldflags "-X".
package version

import "fmt"

var (
	// Version is the release version of the analysis pipeline.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String formats the build identification for banners and -version output.
func String() string {
	return fmt.Sprintf("handmetrics %s (%s, built %s)", Version, GitSHA, BuildTime)
}
