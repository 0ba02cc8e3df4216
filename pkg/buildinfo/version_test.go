package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withVars(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFillFromBuildInfo(t *testing.T) {
	withVars(t, "dev", "none", "unknown")

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	if Version != "v1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "v1.2.3")
	}
	if Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", Commit, "abc123")
	}
	if Date != "2026-01-02T03:04:05Z" {
		t.Errorf("Date = %q, want %q", Date, "2026-01-02T03:04:05Z")
	}
}

func TestFillKeepsLdflags(t *testing.T) {
	withVars(t, "v9.9.9", "deadbeef", "2025-12-20")

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	if Version != "v9.9.9" || Commit != "deadbeef" || Date != "2025-12-20" {
		t.Errorf("fill overwrote ldflags values: %s", String())
	}
}

func TestFillIgnoresDevelVersion(t *testing.T) {
	withVars(t, "dev", "none", "unknown")

	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	if Version != "dev" {
		t.Errorf("Version = %q, want %q", Version, "dev")
	}
}

func TestTemplate(t *testing.T) {
	withVars(t, "v1.0.0", "abc", "today")

	got := Template()
	for _, want := range []string{"{{.Name}} version v1.0.0", "commit: abc", "built: today"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}
