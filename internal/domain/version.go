package domain

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CanonicalVersion turns "1.2.3" or "v1.2.3" into the "v1.2.3" form used by
// semver. Non-semver strings ("dev") are returned unchanged.
func CanonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return strings.TrimPrefix(v, "v")
	}
	return semver.Canonical(v)
}

// MajorVersion returns the compatibility class of v ("v1"). Versions that
// are not semver ("dev") form a class of their own.
func MajorVersion(v string) string {
	c := CanonicalVersion(v)
	if m := semver.Major(c); m != "" {
		return m
	}
	return c
}

// CompatibleVersions reports whether data written by version a can be read
// by version b.
func CompatibleVersions(a, b string) bool {
	return MajorVersion(a) == MajorVersion(b)
}
