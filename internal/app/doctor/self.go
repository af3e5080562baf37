package doctor

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/tasuku43/ghqr/internal/infra/gitcmd"
)

var minGitVersion = semver.MustParse("2.20.0")
var gitVersionPattern = regexp.MustCompile(`\b(\d+)\.(\d+)(?:\.(\d+))?`)

func (c checker) checkGit(ctx context.Context, result *Result) {
	result.Details = append(result.Details,
		fmt.Sprintf("os: %s/%s", runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("minimum git version: %s", minGitVersion),
	)
	result.Warnings = append(result.Warnings, osCaveats(runtime.GOOS)...)

	gitPath, err := c.lookPath("git")
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			Kind:    "missing_dependency",
			Message: "git not found in PATH",
		})
		result.Details = append(result.Details, "git: not found")
		return
	}
	result.Details = append(result.Details, fmt.Sprintf("git path: %s", gitPath))

	versionOutput, err := c.readGitVersion(ctx)
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			Kind:    "git_version_check_failed",
			Message: err.Error(),
		})
		result.Details = append(result.Details, "git version: unknown")
		return
	}
	result.Details = append(result.Details, fmt.Sprintf("git version: %s", versionOutput))

	parsed, ok := parseGitVersion(versionOutput)
	if !ok {
		result.Issues = append(result.Issues, Issue{
			Kind:    "invalid_git_version",
			Message: fmt.Sprintf("unable to parse git version: %s", versionOutput),
		})
		return
	}
	if parsed.LessThan(minGitVersion) {
		result.Issues = append(result.Issues, Issue{
			Kind:    "git_version_too_old",
			Message: fmt.Sprintf("git %s is older than required %s", parsed, minGitVersion),
		})
	}
}

func (c checker) readGitVersion(ctx context.Context) (string, error) {
	res, err := c.run(ctx, []string{"version"}, gitcmd.Options{})
	if err != nil {
		if strings.TrimSpace(res.Stderr) != "" {
			return "", fmt.Errorf("git version failed: %s", strings.TrimSpace(res.Stderr))
		}
		return "", fmt.Errorf("git version failed: %w", err)
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	if out == "" {
		return "", fmt.Errorf("git version returned no output")
	}
	return out, nil
}

// parseGitVersion extracts major.minor[.patch] from `git version` output,
// ignoring vendor suffixes such as ".windows.1" or "(Apple Git-143)".
func parseGitVersion(output string) (*semver.Version, bool) {
	match := gitVersionPattern.FindString(output)
	if match == "" {
		return nil, false
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, false
	}
	return v, true
}

func osCaveats(goos string) []string {
	if strings.EqualFold(strings.TrimSpace(goos), "windows") {
		return []string{"Windows detected: symlinked roots and ssh remotes may behave differently; consider WSL if issues occur."}
	}
	return nil
}
