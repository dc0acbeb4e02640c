package publish

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Requirement is an external CLI the publish sequence depends on.
type Requirement struct {
	Name        string
	VersionArgs []string
	Constraint  string // semver constraint, e.g., ">= 2.0.0"
}

// Requirements lists the CLIs used by Publish and the site build.
var Requirements = []Requirement{
	// Astro's minimum supported Node.js release.
	{Name: "node", VersionArgs: []string{"--version"}, Constraint: ">= 18.17.1"},
	{Name: "git", VersionArgs: []string{"--version"}, Constraint: ">= 2.0.0"},
	// npm ci needs lockfile v2 support.
	{Name: "npm", VersionArgs: []string{"--version"}, Constraint: ">= 7.0.0"},
	{Name: "gh", VersionArgs: []string{"--version"}, Constraint: ">= 2.0.0"},
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// ParseVersion extracts the first version number from CLI output such as
// "git version 2.39.2" or "gh version 2.40.1 (2023-12-13)".
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindString(output)
	if m == "" {
		return nil, fmt.Errorf("no version number in %q", output)
	}
	return semver.NewVersion(m)
}

// CheckRequirements runs each requirement's version command through runner
// and prints one status line per CLI. It returns an error naming the number
// of missing or outdated CLIs.
func CheckRequirements(ctx context.Context, w io.Writer, runner Runner, dir string) error {
	fmt.Fprintln(w, "CLI dependency check:")
	failed := 0
	for _, req := range Requirements {
		out, err := runner.Run(ctx, dir, req.Name, req.VersionArgs...)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s: %v\n", req.Name, firstLine(err.Error()))
			failed++
			continue
		}
		v, err := ParseVersion(string(out))
		if err != nil {
			fmt.Fprintf(w, "  [WARN] %s: could not determine version\n", req.Name)
			continue
		}
		c, err := semver.NewConstraint(req.Constraint)
		if err != nil {
			return fmt.Errorf("parsing constraint for %s: %w", req.Name, err)
		}
		if !c.Check(v) {
			fmt.Fprintf(w, "  [MISS] %s %s does not satisfy %s\n", req.Name, v, req.Constraint)
			failed++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s %s\n", req.Name, v)
	}
	if failed > 0 {
		return fmt.Errorf("%d missing or outdated CLI dependency(ies)", failed)
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
