package version

import (
	"fmt"
	"os/exec"
	"strings"
)

// Set via -ldflags at release time.
var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// Resolve returns the full version string, appending a git-derived suffix
// when the binary is run from inside a git repository whose HEAD is not on
// a release tag.
func Resolve() string {
	return resolveVersion(Version, runGit)
}

// Describe returns the version followed by build metadata when it is known.
func Describe() string {
	return describe(Resolve(), Commit, Date)
}

func describe(version, commit, date string) string {
	var meta []string
	if commit != "" && commit != "unknown" {
		meta = append(meta, "commit "+commit)
	}
	if date != "" && date != "unknown" {
		meta = append(meta, "built "+date)
	}
	if len(meta) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(meta, ", "))
}

func resolveVersion(base string, git func(...string) (string, error)) string {
	if base == "" {
		base = "0.0.0"
	}

	suffix := computeGitSuffix(base, git)
	if suffix == "" {
		return base
	}
	return base + "-" + suffix
}

func computeGitSuffix(base string, git func(...string) (string, error)) string {
	if _, err := git("rev-parse", "--git-dir"); err != nil {
		return ""
	}

	if _, err := git("describe", "--tags", "--exact-match"); err == nil {
		return ""
	}

	desc, err := git("describe", "--tags", "--dirty", "--always")
	if err != nil {
		return ""
	}

	prefix := "v" + base + "-"
	if strings.HasPrefix(desc, prefix) {
		return strings.TrimPrefix(desc, prefix)
	}

	return desc
}

func runGit(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
