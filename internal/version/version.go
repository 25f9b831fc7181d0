package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Build metadata for the cbind CLI, overridable at link time:
//
//	go build -ldflags "-X cbind/internal/version.GitCommit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	GitCommit = ""

	// BuildDate is ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders v with each numeric component highlighted. The colours
// honour color.NoColor, so non-terminal output stays plain.
func Colored(v string) string {
	core, suffix, hasSuffix := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := fmt.Sprintf("%s.%s.%s",
		majorColor.Sprint(parts[0]),
		minorColor.Sprint(parts[1]),
		patchColor.Sprint(parts[2]))
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

// Short is "cbind <version>", plus the abbreviated commit when known.
func Short() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	s := "cbind " + Colored(v)
	if c := strings.TrimSpace(GitCommit); c != "" {
		if len(c) > 12 {
			c = c[:12]
		}
		s += " (" + c + ")"
	}
	return s
}
