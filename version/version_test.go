package version

import "testing"

func TestFullVersion(t *testing.T) {
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("expected dev, got %s", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-02"
	defer func() { Version, GitCommit, BuildDate = "dev", "unknown", "unknown" }()

	if got := GetFullVersion(); got != "1.2.0 (abc123, built 2026-01-02)" {
		t.Errorf("unexpected full version %s", got)
	}
	if GetVersion() != "1.2.0" {
		t.Errorf("unexpected version %s", GetVersion())
	}
}
