package domain

import "testing"

func TestMajorVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"1.2.3", "v1"},
		{"v1.2.3", "v1"},
		{"v2.0.0-rc.1", "v2"},
		{"0.9", "v0"},
		{"dev", "dev"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MajorVersion(tt.input); got != tt.want {
			t.Errorf("MajorVersion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCompatibleVersions(t *testing.T) {
	t.Parallel()

	if !CompatibleVersions("1.0.0", "v1.4.2") {
		t.Error("same major should be compatible")
	}
	if CompatibleVersions("1.0.0", "2.0.0") {
		t.Error("different majors should be incompatible")
	}
	if CompatibleVersions("dev", "1.0.0") {
		t.Error("dev is not compatible with releases")
	}
	if !CompatibleVersions("dev", "dev") {
		t.Error("dev should be compatible with itself")
	}
}

func TestCanonicalVersion(t *testing.T) {
	t.Parallel()

	if got := CanonicalVersion("1.2"); got != "v1.2.0" {
		t.Errorf("CanonicalVersion(1.2) = %q", got)
	}
	if got := CanonicalVersion("dev"); got != "dev" {
		t.Errorf("CanonicalVersion(dev) = %q", got)
	}
}
