// Package version holds build metadata of the translator.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the translator.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric component painted. Anything
// after the patch number is left as is.
func Colored() string {
	core, rest, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2])
	if rest != "" {
		out += "-" + rest
	}
	return out
}

// String is the one-line build description.
func String() string {
	var b strings.Builder
	b.WriteString(Version)
	if GitCommit != "" {
		b.WriteString(" (" + GitCommit + ")")
	}
	if BuildDate != "" {
		b.WriteString(" built " + BuildDate)
	}
	return b.String()
}
