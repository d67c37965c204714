package app

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/heartmarshall/gibberify/internal/app.Version=v1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs and health endpoints.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// DataVersion is the version stamped on generated artifacts. Development
// builds use the current data format version.
func DataVersion() string {
	if v := domain.CanonicalVersion(Version); semver.IsValid(v) {
		return v
	}
	return DataFormatVersion
}

// DataFormatVersion is the artifact version written by untagged builds.
const DataFormatVersion = "v1.0.0"
