package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRootsList(t *testing.T) {
	path := writeConfig(t, "roots:\n  - ~/src\n  - /work/repos\n")
	roots, err := Source{Path: path}.Roots(context.Background())
	if err != nil {
		t.Fatalf("Roots error: %v", err)
	}
	if diff := cmp.Diff([]string{"~/src", "/work/repos"}, roots); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSingleRoot(t *testing.T) {
	file, err := Load(writeConfig(t, "roots: /work/repos\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{"/work/repos"}, file.Roots); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	file, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(file.Roots) != 0 {
		t.Fatalf("roots = %v, want none", file.Roots)
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeConfig(t, "roots: [unterminated\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDefaultPathEnv(t *testing.T) {
	t.Setenv(PathEnv, "/etc/ghqr.yaml")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath error: %v", err)
	}
	if got != "/etc/ghqr.yaml" {
		t.Fatalf("DefaultPath() = %q", got)
	}
}
