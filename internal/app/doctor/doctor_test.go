package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tasuku43/ghqr/internal/infra/gitcmd"
)

func gitVersionRunner(stdout string, err error) gitcmd.Runner {
	return func(_ context.Context, args []string, _ gitcmd.Options) (gitcmd.Result, error) {
		return gitcmd.Result{Stdout: stdout}, err
	}
}

func foundGit(string) (string, error) { return "/usr/bin/git", nil }

func issueKinds(result Result) []string {
	var kinds []string
	for _, issue := range result.Issues {
		kinds = append(kinds, issue.Kind)
	}
	return kinds
}

func TestCheckHealthy(t *testing.T) {
	root := t.TempDir()
	result := Check(context.Background(), []string{root}, Options{
		Run:      gitVersionRunner("git version 2.43.0\n", nil),
		LookPath: foundGit,
	})
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %+v", result.Issues)
	}
}

func TestCheckGitProblems(t *testing.T) {
	cases := []struct {
		name     string
		opts     Options
		wantKind string
	}{
		{
			name:     "missing",
			opts:     Options{LookPath: func(string) (string, error) { return "", errors.New("not found") }},
			wantKind: "missing_dependency",
		},
		{
			name:     "version fails",
			opts:     Options{Run: gitVersionRunner("", errors.New("exit 1")), LookPath: foundGit},
			wantKind: "git_version_check_failed",
		},
		{
			name:     "unparseable",
			opts:     Options{Run: gitVersionRunner("git version unknown", nil), LookPath: foundGit},
			wantKind: "invalid_git_version",
		},
		{
			name:     "too old",
			opts:     Options{Run: gitVersionRunner("git version 1.9.5", nil), LookPath: foundGit},
			wantKind: "git_version_too_old",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Check(context.Background(), nil, tc.opts)
			if diff := cmp.Diff([]string{tc.wantKind}, issueKinds(result)); diff != "" {
				t.Fatalf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckRoots(t *testing.T) {
	base := t.TempDir()
	outer := filepath.Join(base, "src")
	inner := filepath.Join(outer, "work")
	file := filepath.Join(base, "file")
	missing := filepath.Join(base, "missing")
	if err := os.MkdirAll(inner, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := Check(context.Background(), []string{outer, inner, file, missing}, Options{
		Run:      gitVersionRunner("git version 2.43.0", nil),
		LookPath: foundGit,
	})

	want := []Issue{
		{Kind: "root_unusable", Path: file, Message: "path is not a directory: " + file},
		{Kind: "nested_root", Path: inner, Message: "root is inside " + outer + "; its repositories are listed twice"},
	}
	if diff := cmp.Diff(want, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning for the missing root, got %v", result.Warnings)
	}
}
