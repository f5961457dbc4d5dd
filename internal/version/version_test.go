package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestStringIncludesOptionalFields(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}
	GitCommit, BuildDate = "abc123", "2024-01-15T10:30:00Z"
	if got := String(); got != "1.2.3 (abc123) built 2024-01-15T10:30:00Z" {
		t.Fatalf("String() = %q", got)
	}
}

func TestColoredWithoutColor(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.0.0-beta.1", "weird"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}
