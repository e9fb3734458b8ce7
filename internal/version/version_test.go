package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestCurrentPrefersLinkerOverride(t *testing.T) {
	old := buildVersion
	t.Cleanup(func() { buildVersion = old })

	buildVersion = "v1.2.3"
	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected linker version, got %q", got)
	}
	buildVersion = "v1.2.3+dirty"
	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected dirty suffix stripped, got %q", got)
	}
}

func TestVCSPseudoVersion(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
		},
	}
	if got, want := vcsPseudoVersion(info), "v0.0.0-20250102030405-1234567890ab"; got != want {
		t.Fatalf("pseudo version %q, want %q", got, want)
	}
	if got := vcsPseudoVersion(&debug.BuildInfo{}); got != "" {
		t.Fatalf("expected empty version without vcs settings, got %q", got)
	}
}

func TestModuleNeverEmpty(t *testing.T) {
	if Module() == "" {
		t.Fatal("expected a module path")
	}
}
