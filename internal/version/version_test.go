package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withBuildInfo(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "tsunused 0.1.0-dev"},
		{"1.2.3", "abc123", "", "tsunused 1.2.3 (abc123)"},
		{"1.2.3", "abc123", "2026-01-15T10:30:00Z", "tsunused 1.2.3 (abc123, 2026-01-15T10:30:00Z)"},
		{"1.2.3", "", "2026-01-15", "tsunused 1.2.3 (2026-01-15)"},
	}
	for _, tc := range cases {
		withBuildInfo(t, tc.version, tc.commit, tc.date)
		if got := Describe(false); got != tc.want {
			t.Errorf("Describe() = %q, want %q", got, tc.want)
		}
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	withBuildInfo(t, "1.2.3-rc.1+build.123", "", "")
	if got := Colored(); got != "1.2.3-rc.1+build.123" {
		t.Fatalf("Colored() = %q", got)
	}
	withBuildInfo(t, "nightly", "", "")
	if got := Colored(); got != "nightly" {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestDescribeForcesColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	withBuildInfo(t, "1.2.3", "", "")
	got := Describe(true)
	if got == "tsunused 1.2.3" || !strings.Contains(got, "\x1b[") {
		t.Fatalf("Describe(true) = %q, want ANSI colors", got)
	}
	if color.NoColor != true {
		t.Fatal("Describe changed the global color setting")
	}
}
