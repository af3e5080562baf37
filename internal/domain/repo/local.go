package repo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tasuku43/ghqr/internal/domain/vcs"
)

// Local is a checkout discovered under a workspace root.
type Local struct {
	Root string
	// RelPath is host, then at least one more segment.
	RelPath []string
	VCS     vcs.Marker
}

func (l Local) Host() string {
	if len(l.RelPath) == 0 {
		return ""
	}
	return l.RelPath[0]
}

// Owner returns the second-to-last segment; empty for host/name layouts.
func (l Local) Owner() string {
	if len(l.RelPath) < 3 {
		return ""
	}
	return l.RelPath[len(l.RelPath)-2]
}

func (l Local) Name() string {
	if len(l.RelPath) < 2 {
		return ""
	}
	return l.RelPath[len(l.RelPath)-1]
}

// Path returns the slash-separated path relative to the root.
func (l Local) Path() string {
	return strings.Join(l.RelPath, "/")
}

func (l Local) FullPath() string {
	return filepath.Join(append([]string{l.Root}, l.RelPath...)...)
}

// AccessError is a directory the scanner could not read and skipped.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("skip %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
