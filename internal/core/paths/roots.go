package paths

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tasuku43/ghqr/internal/infra/debuglog"
)

const (
	RootEnv        = "GHQ_ROOT"
	defaultRootDir = ".ghq"
)

// Source is an external configuration source for workspace roots.
type Source interface {
	Name() string
	Roots(ctx context.Context) ([]string, error)
}

// ConfigError means no workspace root could be resolved at all.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot resolve workspace root: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ResolveRoots returns the ordered, non-empty list of workspace roots.
//
// GHQ_ROOT (a path list) wins over the sources; the first source returning
// any root wins over the rest. With nothing configured, ~/.ghq is used.
// Source failures are logged and treated as "not configured".
func ResolveRoots(ctx context.Context, getenv func(string) string, sources ...Source) ([]string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	var raw []string
	if env := strings.TrimSpace(getenv(RootEnv)); env != "" {
		raw = filepath.SplitList(env)
	}
	if len(compact(raw)) == 0 {
		raw = nil
		for _, src := range sources {
			roots, err := src.Roots(ctx)
			if err != nil {
				debuglog.LogWarn("config", fmt.Sprintf("%s: %v", src.Name(), err))
				continue
			}
			if len(compact(roots)) > 0 {
				raw = roots
				break
			}
		}
	}

	roots := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range compact(raw) {
		root, err := normalizeRoot(r)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}
	if len(roots) > 0 {
		return roots, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return []string{filepath.Join(home, defaultRootDir)}, nil
}

// PrimaryRoot returns the first root, the default target for clones.
func PrimaryRoot(roots []string) string {
	if len(roots) == 0 {
		return ""
	}
	return roots[0]
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeRoot(path string) (string, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Clean(expanded))
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}

	return path, nil
}
