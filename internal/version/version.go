// Package version holds build information for the tsunused CLI.
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

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with the major, minor and patch parts colored,
// honouring color.NoColor. Anything that does not look like x.y.z is
// returned as is.
func Colored() string { return colored(false) }

func paint(c *color.Color, s string, force bool) string {
	if force {
		forced := *c
		forced.EnableColor()
		return forced.Sprint(s)
	}
	return c.Sprint(s)
}

func colored(force bool) string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	return paint(versionMajorColor, parts[0], force) + "." +
		paint(versionMinorColor, parts[1], force) + "." +
		paint(versionPatchColor, parts[2], force) + suffix
}

// Describe returns the version line printed by `tsunused version`; with
// withColor the version number is colored regardless of color.NoColor.
func Describe(withColor bool) string {
	v := Version
	if withColor {
		v = colored(true)
	}
	var b strings.Builder
	b.WriteString("tsunused ")
	b.WriteString(v)
	if GitCommit != "" {
		b.WriteString(" (")
		b.WriteString(GitCommit)
		if BuildDate != "" {
			b.WriteString(", ")
			b.WriteString(BuildDate)
		}
		b.WriteString(")")
	} else if BuildDate != "" {
		b.WriteString(" (")
		b.WriteString(BuildDate)
		b.WriteString(")")
	}
	return b.String()
}
