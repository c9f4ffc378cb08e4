package version

import (
	"runtime"

	goversion "github.com/hashicorp/go-version"
)

// will be replaced with the release version when using goreleaser
var version = "development"

// Version returns the application version set at build time.
func Version() string {
	return version
}

// Semver returns the build version parsed as a semantic version.
// Development builds without a release version parse as 0.0.0.
func Semver() *goversion.Version {
	v, err := goversion.NewVersion(version)
	if err != nil {
		v, _ = goversion.NewVersion("0.0.0")
	}
	return v
}

// Platform returns the os/arch pair the binary was built for.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

func DesktopUserAgent() string {
	return "quill-desktop/" + version
}

func CLIUserAgent() string {
	return "quill-cli/" + version
}
