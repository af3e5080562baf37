package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tasuku43/ghqr/internal/app/doctor"
	"github.com/tasuku43/ghqr/internal/infra/gitcmd"
)

type cloneCall struct {
	URL     string
	Dest    string
	Shallow bool
}

type fakeBackend struct {
	mu     sync.Mutex
	clones []cloneCall
	pulls  []string
}

func (f *fakeBackend) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *fakeBackend) Clone(_ context.Context, url, dest string, shallow bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clones = append(f.clones, cloneCall{URL: url, Dest: dest, Shallow: shallow})
	return nil
}

func (f *fakeBackend) Pull(_ context.Context, dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls = append(f.pulls, dest)
	return nil
}

type testApp struct {
	*App
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	backend *fakeBackend
}

func newTestApp(t *testing.T, ghqRoot, cwd string) testApp {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	backend := &fakeBackend{}
	env := map[string]string{"GHQ_ROOT": ghqRoot}
	app := &App{
		Stdin:   strings.NewReader(""),
		Stdout:  stdout,
		Stderr:  stderr,
		Getenv:  func(key string) string { return env[key] },
		Getwd:   func() (string, error) { return cwd, nil },
		Backend: backend,
	}
	return testApp{App: app, stdout: stdout, stderr: stderr, backend: backend}
}

func makeCheckouts(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel), ".git"), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
	}
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestListCommand(t *testing.T) {
	root := t.TempDir()
	makeCheckouts(t, root, "github.com/hoge/fuga", "example.com/org/repo", "github.com/other/fuga")

	cases := []struct {
		name string
		args []string
		want []string
	}{
		{name: "all", args: []string{"list"}, want: []string{"example.com/org/repo", "github.com/hoge/fuga", "github.com/other/fuga"}},
		{name: "query", args: []string{"list", "hoge"}, want: []string{"github.com/hoge/fuga"}},
		{name: "exact name", args: []string{"list", "-e", "fuga"}, want: []string{"github.com/hoge/fuga", "github.com/other/fuga"}},
		{name: "exact miss", args: []string{"list", "--exact", "fug"}, want: nil},
		{name: "unique", args: []string{"list", "--unique", "fuga"}, want: []string{"fuga", "fuga"}},
		{
			name: "full path",
			args: []string{"list", "-p", "org"},
			want: []string{filepath.Join(root, "example.com", "org", "repo")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, root, root)
			if err := app.Execute(context.Background(), tc.args); err != nil {
				t.Fatalf("Execute(%v) error: %v", tc.args, err)
			}
			if diff := cmp.Diff(tc.want, lines(app.stdout.String())); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	env := strings.Join([]string{first, second}, string(os.PathListSeparator))

	app := newTestApp(t, env, first)
	if err := app.Execute(context.Background(), []string{"root"}); err != nil {
		t.Fatalf("root error: %v", err)
	}
	if diff := cmp.Diff([]string{first}, lines(app.stdout.String())); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}

	app = newTestApp(t, env, first)
	if err := app.Execute(context.Background(), []string{"root", "--all"}); err != nil {
		t.Fatalf("root --all error: %v", err)
	}
	if diff := cmp.Diff([]string{first, second}, lines(app.stdout.String())); diff != "" {
		t.Fatalf("root --all mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCommandClonesIntoRoot(t *testing.T) {
	root := t.TempDir()
	makeCheckouts(t, root, "github.com/hoge/existing")

	app := newTestApp(t, root, root)
	args := []string{"get", "--shallow", "hoge/fuga", "https://gitlab.com/org/repo.git", "github.com/hoge/existing"}
	if err := app.Execute(context.Background(), args); err != nil {
		t.Fatalf("get error: %v", err)
	}

	want := []cloneCall{
		{URL: "https://github.com/hoge/fuga.git", Dest: filepath.Join(root, "github.com", "hoge", "fuga"), Shallow: true},
		{URL: "https://gitlab.com/org/repo.git", Dest: filepath.Join(root, "gitlab.com", "org", "repo"), Shallow: true},
	}
	if diff := cmp.Diff(want, app.backend.clones); diff != "" {
		t.Fatalf("clones mismatch (-want +got):\n%s", diff)
	}
	if len(app.backend.pulls) != 0 {
		t.Fatalf("unexpected pulls: %v", app.backend.pulls)
	}
	out := app.stdout.String()
	for _, want := range []string{"Steps", "Result", "cloned " + filepath.Join(root, "github.com", "hoge", "fuga"), "already exists"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestGetCommandUpdateAndRootFlag(t *testing.T) {
	other := t.TempDir()
	makeCheckouts(t, other, "github.com/hoge/fuga")

	app := newTestApp(t, t.TempDir(), other)
	if err := app.Execute(context.Background(), []string{"get", "-u", "--root", other, "hoge/fuga"}); err != nil {
		t.Fatalf("get error: %v", err)
	}
	want := []string{filepath.Join(other, "github.com", "hoge", "fuga")}
	if diff := cmp.Diff(want, app.backend.pulls); diff != "" {
		t.Fatalf("pulls mismatch (-want +got):\n%s", diff)
	}
	if len(app.backend.clones) != 0 {
		t.Fatalf("unexpected clones: %v", app.backend.clones)
	}
}

func TestGetCommandRejectsBadSpecBeforeCloning(t *testing.T) {
	root := t.TempDir()
	app := newTestApp(t, root, root)
	err := app.Execute(context.Background(), []string{"get", "hoge/fuga", "https://github.com/hoge"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(app.backend.clones) != 0 {
		t.Fatalf("nothing should be cloned, got %v", app.backend.clones)
	}
}

func TestPathCommand(t *testing.T) {
	root := t.TempDir()
	makeCheckouts(t, root, "github.com/hoge/fuga", "github.com/other/fuga", "example.com/org/repo")

	app := newTestApp(t, root, root)
	if err := app.Execute(context.Background(), []string{"path", "repo"}); err != nil {
		t.Fatalf("path error: %v", err)
	}
	if got, want := strings.TrimSpace(app.stdout.String()), filepath.Join(root, "example.com", "org", "repo"); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}

	app = newTestApp(t, root, root)
	if err := app.Execute(context.Background(), []string{"path", "--first", "fuga"}); err != nil {
		t.Fatalf("path --first error: %v", err)
	}
	if got, want := strings.TrimSpace(app.stdout.String()), filepath.Join(root, "github.com", "hoge", "fuga"); got != want {
		t.Fatalf("path --first = %q, want %q", got, want)
	}

	app = newTestApp(t, root, root)
	err := app.Execute(context.Background(), []string{"path", "fuga"})
	if err == nil || !strings.Contains(err.Error(), "2 repositories match") {
		t.Fatalf("expected ambiguity error, got %v", err)
	}

	app = newTestApp(t, root, root)
	err = app.Execute(context.Background(), []string{"path", "missing"})
	if err == nil || !strings.Contains(err.Error(), "no repository matches") {
		t.Fatalf("expected no-match error, got %v", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	root := t.TempDir()
	app := newTestApp(t, root, root)
	app.Doctor = doctor.Options{
		Run: func(context.Context, []string, gitcmd.Options) (gitcmd.Result, error) {
			return gitcmd.Result{Stdout: "git version 2.43.0"}, nil
		},
		LookPath: func(string) (string, error) { return "/usr/bin/git", nil },
	}
	if err := app.Execute(context.Background(), []string{"doctor"}); err != nil {
		t.Fatalf("doctor error: %v", err)
	}
	out := app.stdout.String()
	for _, want := range []string{"git version: git version 2.43.0", "root[0]: " + root, "no issues found"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	app = newTestApp(t, root, root)
	app.Doctor = doctor.Options{LookPath: func(string) (string, error) { return "", os.ErrNotExist }}
	err := app.Execute(context.Background(), []string{"doctor"})
	if err == nil || !strings.Contains(err.Error(), "1 issue") {
		t.Fatalf("expected issue error, got %v", err)
	}
	if !strings.Contains(app.stdout.String(), "missing_dependency") {
		t.Fatalf("expected issue in output:\n%s", app.stdout.String())
	}
}

func TestVersionCommand(t *testing.T) {
	app := newTestApp(t, t.TempDir(), "")
	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(app.stdout.String(), "ghqr dev") {
		t.Fatalf("unexpected version output: %q", app.stdout.String())
	}
}

func TestEnvBool(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"Off":   false,
		"1":     true,
		"yes":   true,
	}
	for in, want := range cases {
		if got := envBool(in); got != want {
			t.Fatalf("envBool(%q) = %v, want %v", in, got, want)
		}
	}
}
