// Package doctor inspects the environment ghqr depends on: the git binary
// and the configured workspace roots.
package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tasuku43/ghqr/internal/core/paths"
	"github.com/tasuku43/ghqr/internal/infra/gitcmd"
)

type Issue struct {
	Kind    string
	Path    string
	Message string
}

type Result struct {
	Issues   []Issue
	Warnings []string
	Details  []string
}

// Options replaces the process collaborators; zero values use git and PATH.
type Options struct {
	Run      gitcmd.Runner
	LookPath func(file string) (string, error)
}

type checker struct {
	run      gitcmd.Runner
	lookPath func(string) (string, error)
}

// Check reports problems that would make list or get misbehave. It never
// fails; everything it finds ends up in the Result.
func Check(ctx context.Context, roots []string, opts Options) Result {
	c := checker{run: opts.Run, lookPath: opts.LookPath}
	if c.run == nil {
		c.run = gitcmd.Run
	}
	if c.lookPath == nil {
		c.lookPath = exec.LookPath
	}

	var result Result
	c.checkGit(ctx, &result)
	checkRoots(roots, &result)
	return result
}

func checkRoots(roots []string, result *Result) {
	for i, root := range roots {
		result.Details = append(result.Details, fmt.Sprintf("root[%d]: %s", i, root))
		ok, err := paths.DirExists(root)
		switch {
		case err != nil:
			result.Issues = append(result.Issues, Issue{Kind: "root_unusable", Path: root, Message: err.Error()})
		case !ok:
			result.Warnings = append(result.Warnings, fmt.Sprintf("root %s does not exist yet; get creates it", root))
		}
	}

	for i, inner := range roots {
		for j, outer := range roots {
			if i == j || !within(outer, inner) {
				continue
			}
			result.Issues = append(result.Issues, Issue{
				Kind:    "nested_root",
				Path:    inner,
				Message: fmt.Sprintf("root is inside %s; its repositories are listed twice", outer),
			})
		}
	}
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
